package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const formatDICOM = "dicom"

type imageInspector struct {
	ThumbnailWidth int
}

func NewImageInspector(thumbnailWidth int) contracts.ImageInspector {
	if thumbnailWidth <= 0 {
		thumbnailWidth = 256
	}
	return &imageInspector{ThumbnailWidth: thumbnailWidth}
}

// Inspect reads the dimensions of an upload and renders a PNG thumbnail.
// DICOM uploads only yield metadata; their pixel data is not decoded.
func (i *imageInspector) Inspect(fileName, contentType string, data []byte) (*contracts.InspectedImage, error) {
	meta := models.ImageMeta{
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
	}

	if IsDICOM(fileName, contentType, data) {
		dicomMeta, width, height, err := parseDICOM(data)
		if err != nil {
			return nil, exceptions.ErrDICOMParse(err)
		}
		meta.Format = formatDICOM
		meta.Width, meta.Height = width, height
		meta.DICOM = dicomMeta
		return &contracts.InspectedImage{Meta: meta}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, exceptions.ErrImageDecode(err)
	}
	bounds := img.Bounds()
	meta.Format = format
	meta.Width, meta.Height = bounds.Dx(), bounds.Dy()

	thumbnail, err := i.thumbnail(img)
	if err != nil {
		return nil, exceptions.ErrImageDecode(err)
	}
	return &contracts.InspectedImage{Meta: meta, Thumbnail: thumbnail}, nil
}

func (i *imageInspector) thumbnail(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > i.ThumbnailWidth {
		height = height * i.ThumbnailWidth / width
		width = i.ThumbnailWidth
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsDICOM checks the declared type, the extension and the DICM magic at
// offset 128.
func IsDICOM(fileName, contentType string, data []byte) bool {
	if strings.EqualFold(contentType, constvars.MIMEApplicationDICOM) ||
		strings.HasSuffix(strings.ToLower(fileName), ".dcm") {
		return true
	}
	return len(data) >= 132 && string(data[128:132]) == "DICM"
}

func parseDICOM(data []byte) (*models.DICOMMeta, int, int, error) {
	ds, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil, dicom.SkipPixelData())
	if err != nil {
		return nil, 0, 0, err
	}

	meta := &models.DICOMMeta{
		Modality:          stringValue(ds, tag.Modality),
		BodyPartExamined:  stringValue(ds, tag.BodyPartExamined),
		StudyDate:         stringValue(ds, tag.StudyDate),
		StudyDescription:  stringValue(ds, tag.StudyDescription),
		Manufacturer:      stringValue(ds, tag.Manufacturer),
		SliceThickness:    stringValue(ds, tag.SliceThickness),
		PhotometricInterp: stringValue(ds, tag.PhotometricInterpretation),
	}
	return meta, intValue(ds, tag.Columns), intValue(ds, tag.Rows), nil
}

func stringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value.ValueType() != dicom.Strings {
		return ""
	}
	return strings.TrimSpace(strings.Join(dicom.MustGetStrings(elem.Value), "\\"))
}

func intValue(ds dicom.Dataset, t tag.Tag) int {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value.ValueType() != dicom.Ints {
		return 0
	}
	values := dicom.MustGetInts(elem.Value)
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
