package utils

import (
	"mime/multipart"
	"strings"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/synth"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("modality", validateModality)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateModality(fl validator.FieldLevel) bool {
	_, err := synth.ParseModality(fl.Field().String())
	return err == nil
}

// IsImageUpload reports whether the declared content type of an upload is an
// image. DICOM files are accepted separately when allowDICOM is set.
func IsImageUpload(fileHeader *multipart.FileHeader, allowDICOM bool) bool {
	if fileHeader == nil {
		return false
	}
	contentType := strings.ToLower(fileHeader.Header.Get(constvars.HeaderContentType))
	if strings.HasPrefix(contentType, constvars.MIMEImagePrefix) {
		return true
	}
	if !allowDICOM {
		return false
	}
	return contentType == constvars.MIMEApplicationDICOM ||
		strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".dcm")
}

func IsUploadTooLarge(fileHeader *multipart.FileHeader, maxSizeInMegabytes int64) bool {
	return fileHeader.Size > maxSizeInMegabytes*1024*1024
}
