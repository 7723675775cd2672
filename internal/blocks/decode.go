// internal/blocks/decode.go
//
// Builder-document decoding: raw JSON → ordered []Block.
//
// A document is an array of {type, position, config}.  Blocks are sorted
// by position, config is decoded into the variant named by the type tag,
// and anything unrecognized — unknown tag, or config that does not decode
// — becomes an UnknownBlock so the page still renders.
package blocks

import (
	"encoding/json"
	"fmt"
	"sort"
)

type rawBlock struct {
	Type     string          `json:"type"`
	Position int             `json:"position"`
	Config   json.RawMessage `json:"config"`
}

// DecodeList parses a builder document.  Only a malformed outer array is
// an error; per-block problems degrade to UnknownBlock.
func DecodeList(doc []byte) ([]Block, error) {
	var raw []rawBlock
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode block document: %w", err)
	}

	sort.SliceStable(raw, func(i, j int) bool { return raw[i].Position < raw[j].Position })

	out := make([]Block, 0, len(raw))
	for _, rb := range raw {
		out = append(out, decodeOne(rb))
	}
	return out, nil
}

func decodeOne(rb rawBlock) Block {
	cfg := rb.Config
	if len(cfg) == 0 {
		cfg = []byte(`{}`)
	}

	switch rb.Type {
	case "hero":
		var b HeroBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	case "text":
		var b TextBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	case "image":
		var b ImageBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	case "product_grid":
		var b ProductGridBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	case "video":
		var b VideoBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	case "gallery":
		var b GalleryBlock
		if json.Unmarshal(cfg, &b) == nil {
			return b
		}
	}
	return UnknownBlock{TypeName: rb.Type}
}
