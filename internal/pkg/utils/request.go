package utils

import (
	"net/http"
	"strconv"
	"strings"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
)

// BuildUpdateProfileRequest accepts either a JSON body or form fields.
func BuildUpdateProfileRequest(r *http.Request) (*requests.UpdateProfile, error) {
	request := new(requests.UpdateProfile)

	contentType := r.Header.Get(constvars.HeaderContentType)
	if strings.HasPrefix(contentType, constvars.MIMEApplicationJSON) {
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			return nil, err
		}
		return request, nil
	}

	if strings.HasPrefix(contentType, constvars.MIMEMultipartForm) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	request.Name = r.FormValue("name")
	return request, nil
}

// ParseOptionalSeed reads an optional integer seed. Empty means no seed.
func ParseOptionalSeed(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &seed, nil
}
