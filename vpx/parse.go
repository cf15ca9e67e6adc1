package vpx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
)

const (
	streamVersion  = "GameStg/Version"
	streamGameData = "GameStg/GameData"
)

// ParseFile reads and parses the table file at path.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vpx: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a table from the bytes of a compound file. On error the
// returned table is always nil.
func Parse(data []byte) (*Table, error) {
	streams, err := readContainer(data)
	if err != nil {
		return nil, err
	}
	return ParseStreams(streams)
}

// readContainer flattens the compound file into a map from slash separated
// stream path to stream contents.
func readContainer(data []byte) (map[string][]byte, error) {
	if len(data) < 512 {
		return nil, &ParseError{Err: fmt.Errorf("%w: %d bytes is shorter than a compound file header", ErrTruncated, len(data))}
	}
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrBadContainer, err)}
	}
	streams := make(map[string][]byte)
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrBadContainer, err)}
		}
		path := streamPath(entry.Path, entry.Name)
		if entry.Size <= 0 {
			continue
		}
		buf, err := io.ReadAll(entry)
		if err != nil {
			return nil, &ParseError{Stream: path, Err: fmt.Errorf("%w: %v", ErrBadContainer, err)}
		}
		streams[path] = buf
	}
	return streams, nil
}

func streamPath(parents []string, name string) string {
	parts := make([]string, 0, len(parents)+1)
	for _, p := range parents {
		if p == "Root Entry" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(append(parts, name), "/")
}

// ParseStreams parses a table from already extracted streams, keyed by
// their slash separated path (for example "GameStg/GameData").
func ParseStreams(streams map[string][]byte) (*Table, error) {
	t := &Table{}

	if raw, ok := streams[streamVersion]; ok {
		if len(raw) < 4 {
			return nil, &ParseError{Stream: streamVersion, Err: ErrTruncated}
		}
		t.Version = int32(binary.LittleEndian.Uint32(raw))
	}

	gameData, ok := streams[streamGameData]
	if !ok {
		return nil, &ParseError{Stream: streamGameData, Err: ErrMissingStream}
	}
	if err := parseGameData(streamGameData, gameData, t); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	err := eachIndexed(streams, "GameStg/GameItem", t.GameData.GameItemCount, func(name string, data []byte) error {
		item, err := parseGameItem(name, data)
		if err != nil {
			return err
		}
		if n := item.ItemName(); n != "" {
			if seen[n] {
				return &ParseError{Stream: name, Err: fmt.Errorf("%w: %q", ErrDuplicateName, n)}
			}
			seen[n] = true
		}
		t.GameItems = append(t.GameItems, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachIndexed(streams, "GameStg/Sound", t.GameData.SoundCount, func(name string, data []byte) error {
		s, err := parseSound(name, data)
		if err != nil {
			return err
		}
		t.Sounds = append(t.Sounds, s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachIndexed(streams, "GameStg/Image", t.GameData.ImageCount, func(name string, data []byte) error {
		img, err := parseImage(name, data)
		if err != nil {
			return err
		}
		t.Images = append(t.Images, img)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := parseTableInfo(streams, t); err != nil {
		return nil, err
	}
	return t, nil
}

// eachIndexed visits prefix0, prefix1, ... in order. With a declared count
// every stream must exist; without one, iteration stops at the first gap.
func eachIndexed(streams map[string][]byte, prefix string, count int, fn func(name string, data []byte) error) error {
	for i := 0; ; i++ {
		if count > 0 && i >= count {
			return nil
		}
		name := fmt.Sprintf("%s%d", prefix, i)
		data, ok := streams[name]
		if !ok {
			if count > 0 {
				return &ParseError{Stream: name, Err: ErrMissingStream}
			}
			return nil
		}
		if err := fn(name, data); err != nil {
			return err
		}
	}
}
