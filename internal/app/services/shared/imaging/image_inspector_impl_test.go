package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/bmp"
)

func mustNewElement(t *testing.T, tg tag.Tag, value interface{}) *dicom.Element {
	t.Helper()
	elem, err := dicom.NewElement(tg, value)
	require.NoError(t, err)
	return elem
}

func encodedImage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestInspect_RasterImages(t *testing.T) {
	inspector := NewImageInspector(64)

	testCases := []struct {
		name   string
		format string
		encode func(*bytes.Buffer, image.Image) error
	}{
		{"PNG", "png", func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }},
		{"BMP", "bmp", func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := encodedImage(t, 200, 100, tc.encode)

			inspected, err := inspector.Inspect("scan."+tc.format, "image/"+tc.format, data)
			require.NoError(t, err)
			assert.Equal(t, tc.format, inspected.Meta.Format)
			assert.Equal(t, 200, inspected.Meta.Width)
			assert.Equal(t, 100, inspected.Meta.Height)
			assert.Equal(t, int64(len(data)), inspected.Meta.Size)
			assert.Nil(t, inspected.Meta.DICOM)

			thumb, err := png.DecodeConfig(bytes.NewReader(inspected.Thumbnail))
			require.NoError(t, err)
			assert.Equal(t, 64, thumb.Width)
			assert.Equal(t, 32, thumb.Height)
		})
	}

	t.Run("Small images keep their size", func(t *testing.T) {
		data := encodedImage(t, 20, 10, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
		inspected, err := inspector.Inspect("small.png", "image/png", data)
		require.NoError(t, err)

		thumb, err := png.DecodeConfig(bytes.NewReader(inspected.Thumbnail))
		require.NoError(t, err)
		assert.Equal(t, 20, thumb.Width)
	})

	t.Run("Undecodable data", func(t *testing.T) {
		_, err := inspector.Inspect("fake.png", "image/png", []byte("not an image"))
		assert.Error(t, err)
	})
}

func TestInspect_DICOM(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustNewElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustNewElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5"}),
		mustNewElement(t, tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(t, tag.Modality, []string{"CT"}),
		mustNewElement(t, tag.BodyPartExamined, []string{"HEAD"}),
		mustNewElement(t, tag.StudyDescription, []string{"CT HEAD W/O CONTRAST"}),
		mustNewElement(t, tag.Rows, []int{512}),
		mustNewElement(t, tag.Columns, []int{256}),
	}}
	var buf bytes.Buffer
	require.NoError(t, dicom.Write(&buf, ds))
	data := buf.Bytes()

	assert.True(t, IsDICOM("upload.bin", "application/octet-stream", data))

	inspected, err := NewImageInspector(64).Inspect("head.dcm", "application/dicom", data)
	require.NoError(t, err)
	assert.Equal(t, "dicom", inspected.Meta.Format)
	assert.Equal(t, 256, inspected.Meta.Width)
	assert.Equal(t, 512, inspected.Meta.Height)
	require.NotNil(t, inspected.Meta.DICOM)
	assert.Equal(t, "CT", inspected.Meta.DICOM.Modality)
	assert.Equal(t, "HEAD", inspected.Meta.DICOM.BodyPartExamined)
	assert.Equal(t, "CT HEAD W/O CONTRAST", inspected.Meta.DICOM.StudyDescription)
	assert.Empty(t, inspected.Thumbnail)

	_, err = NewImageInspector(64).Inspect("broken.dcm", "application/dicom", []byte("garbage"))
	assert.Error(t, err)
}

func TestIsDICOM(t *testing.T) {
	assert.True(t, IsDICOM("a.DCM", "", nil))
	assert.True(t, IsDICOM("a", "application/dicom", nil))
	assert.False(t, IsDICOM("a.png", "image/png", []byte("PNG")))
}
