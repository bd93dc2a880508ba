package image

import (
	"bytes"
	"fmt"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
)

// ExtractEXIF returns the raw APP1 segment data of a JPEG, or nil if the
// image carries no EXIF segment or is not a JPEG.
func ExtractEXIF(data []byte) []byte {
	parser := jpegstructure.NewJpegMediaParser()
	if !parser.LooksLikeFormat(data) {
		return nil
	}

	intfc, err := parser.ParseBytes(data)
	if err != nil {
		return nil
	}

	sl := intfc.(*jpegstructure.SegmentList)
	for _, segment := range sl.Segments() {
		if segment.MarkerId == jpegstructure.MARKER_APP1 {
			return segment.Data
		}
	}
	return nil
}

// InjectEXIF re-attaches a previously extracted APP1 segment to freshly
// encoded JPEG data. The encoders never emit EXIF themselves, so this is the
// only way metadata survives a re-encode.
func InjectEXIF(jpegData, app1 []byte) ([]byte, error) {
	if len(app1) == 0 {
		return jpegData, nil
	}

	parser := jpegstructure.NewJpegMediaParser()
	intfc, err := parser.ParseBytes(jpegData)
	if err != nil {
		return nil, fmt.Errorf("parse encoded jpeg: %w", err)
	}

	sl := intfc.(*jpegstructure.SegmentList)
	segments := sl.Segments()
	if len(segments) == 0 {
		return nil, fmt.Errorf("parse encoded jpeg: no segments")
	}

	// The APP1 segment must sit right after SOI; readers stop looking for
	// metadata once they hit the scan data.
	app1Segment := &jpegstructure.Segment{
		MarkerId: jpegstructure.MARKER_APP1,
		Data:     app1,
	}
	rebuilt := make([]*jpegstructure.Segment, 0, len(segments)+1)
	rebuilt = append(rebuilt, segments[0], app1Segment)
	rebuilt = append(rebuilt, segments[1:]...)

	var buf bytes.Buffer
	if err := jpegstructure.NewSegmentList(rebuilt).Write(&buf); err != nil {
		return nil, fmt.Errorf("write jpeg segments: %w", err)
	}
	return buf.Bytes(), nil
}
