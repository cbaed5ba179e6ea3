// Package chunker splits extracted document text into ordered, overlapping chunks.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

// Separators ordered from "best" to "worst" for semantic meaning
var separators = []string{"\n\n", "\n", ". ", " ", ""}

var ErrInvalidChunkParams = errors.New("invalid chunk parameters")

// matches the boundary markers the extraction step writes between pages
var pageMarker = regexp.MustCompile(`(?m)^--- Page \d+ ---$`)

// Chunk splits text into chunks of at most size runes where adjacent chunks share up to
// overlap runes of context. The output depends only on the arguments.
func Chunk(text string, size int, overlap int) ([]commonModels.Chunk, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkParams, size, overlap)
	}
	if strings.TrimSpace(text) == "" {
		return []commonModels.Chunk{}, nil
	}

	pieces := splitTextIntoChunks(text, separators, size, overlap)
	pages := len(pageMarker.FindAllStringIndex(text, -1))

	chunks := make([]commonModels.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, commonModels.Chunk{
			Id:           ChunkId(i),
			Ordinal:      i,
			Content:      piece,
			PositionHint: positionHint(i, len(pieces), pages),
			Kind:         commonModels.ChunkKindText,
		})
	}
	return chunks, nil
}

func ChunkId(ordinal int) string {
	return fmt.Sprintf("chunk_%d", ordinal)
}

// positionHint spreads chunks evenly over the page count. Without page markers it is the
// 1-based ordinal.
func positionHint(ordinal, total, pages int) int {
	if pages <= 0 || total <= 0 {
		return ordinal + 1
	}
	return ordinal*pages/total + 1
}

func splitTextIntoChunks(text string, seps []string, size int, overlap int) []string {
	sep, finer := pickSeparator(text, seps)

	var parts []string
	if sep == "" {
		parts = splitRunes(text)
	} else {
		parts = strings.SplitAfter(text, sep)
	}

	var out, fitting []string
	for _, part := range parts {
		if runeLen(part) <= size {
			fitting = append(fitting, part)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, mergeParts(fitting, size, overlap)...)
			fitting = nil
		}
		if len(finer) == 0 {
			// indivisible, emitted oversized
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
			continue
		}
		out = append(out, splitTextIntoChunks(part, finer, size, overlap)...)
	}
	if len(fitting) > 0 {
		out = append(out, mergeParts(fitting, size, overlap)...)
	}
	return out
}

// pickSeparator returns the coarsest separator present in text and the finer ones after it.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			return s, seps[i+1:]
		}
	}
	return "", nil
}

// mergeParts packs parts (each at most size runes) into chunks. When a chunk is emitted the
// trailing parts totalling at most overlap runes start the next one.
func mergeParts(parts []string, size int, overlap int) []string {
	var chunks []string
	var window []string
	total := 0

	for _, part := range parts {
		l := runeLen(part)
		if total+l > size && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > overlap || (total+l > size && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, part)
		total += l
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func splitRunes(text string) []string {
	out := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
