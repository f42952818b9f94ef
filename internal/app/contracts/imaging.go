package contracts

import "zemedic-service/internal/app/models"

type InspectedImage struct {
	Meta      models.ImageMeta
	Thumbnail []byte
}

type ImageInspector interface {
	Inspect(fileName, contentType string, data []byte) (*InspectedImage, error)
}
