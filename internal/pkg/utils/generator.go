package utils

import (
	"fmt"
	"path"
	"strings"
	"time"
	"zemedic-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateObjectName builds a storage key such as images/<owner>/<uuid>.png.
func GenerateObjectName(prefix, owner, fileExtension string) string {
	if fileExtension != "" && !strings.HasPrefix(fileExtension, ".") {
		fileExtension = "." + fileExtension
	}
	return path.Join(prefix, owner, uuid.NewString()+strings.ToLower(fileExtension))
}

func GenerateDemoAnalysisID(now time.Time) string {
	return fmt.Sprintf("%s%d", constvars.DemoAnalysisIDPrefix, now.UnixMilli())
}

func GenerateReportObjectName(analysisID string) string {
	return path.Join(constvars.MinioObjectPrefixReport, fmt.Sprintf(constvars.ReportFileNameFormat, analysisID))
}
