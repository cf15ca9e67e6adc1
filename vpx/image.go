package vpx

import "bytes"

func parseImage(stream string, data []byte) (Image, error) {
	r := newBiffReader(stream, data)
	var img Image
	for {
		ok, err := r.next()
		if err != nil {
			return Image{}, err
		}
		if !ok {
			break
		}
		switch r.tag {
		case "NAME":
			err = r.str(&img.Name)
		case "PATH":
			err = r.str(&img.Path)
		case "WDTH":
			var v float64
			err = r.intAsFloat(&v)
			img.Width = int(v)
		case "HGHT":
			var v float64
			err = r.intAsFloat(&v)
			img.Height = int(v)
		case "JPEG":
			img.Data, err = readEncodedImage(r)
			img.Format = sniffImageFormat(img.Data)
		case "BITS":
			// Raw bitmaps are LZW packed without a length, so nothing
			// after them can be located. The name and size are already
			// known at this point.
			return img, nil
		}
		if err != nil {
			return Image{}, err
		}
	}
	return img, nil
}

// readEncodedImage reads the block embedding the original image file.
func readEncodedImage(r *biffReader) ([]byte, error) {
	var data []byte
	for {
		ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return data, nil
		}
		if r.tag == "DATA" {
			data = r.body
		}
	}
}

func sniffImageFormat(b []byte) string {
	switch {
	case bytes.HasPrefix(b, []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(b, []byte("BM")):
		return "bmp"
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return "webp"
	case bytes.HasPrefix(b, []byte("GIF8")):
		return "gif"
	}
	return ""
}
