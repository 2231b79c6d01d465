// Package splitter turns document text into overlapping, boundary-aware
// chunks suitable for embedding.
package splitter

import "strings"

// DefaultSeparators is the separator cascade for source code, highest
// priority first. The trailing empty string splits at character granularity
// and guarantees the cascade always terminates.
var DefaultSeparators = []string{
	"\n\nclass ",
	"\n\ndef ",
	"\n\nasync def ",
	"\n\nfunc ",
	"\n\ntype ",
	"\n\n",
	"\n",
	" ",
	"",
}

// Split breaks text into pieces of at most chunkSize characters, with up to
// overlap characters shared between consecutive pieces.
//
// It greedily splits on the highest-priority separator present in the text
// and recursively re-splits any piece still over chunkSize using the
// remaining, lower-priority separators. A piece that cannot be reduced
// because no separators remain is emitted oversized rather than dropped.
//
// Split is pure: it never mutates its inputs and has no side effects.
func Split(text string, separators []string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return splitRecursive(text, separators, chunkSize, overlap)
}

func splitRecursive(text string, separators []string, chunkSize, overlap int) []string {
	// Pick the highest-priority separator that occurs in the text.
	// The empty string always matches.
	sep := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, sep)

	var final []string
	var pending []string

	for _, piece := range splits {
		if len(piece) < chunkSize {
			pending = append(pending, piece)
			continue
		}

		// Piece too large: flush what fits, then reduce it further.
		if len(pending) > 0 {
			final = append(final, mergeSplits(pending, chunkSize, overlap)...)
			pending = nil
		}
		if len(remaining) == 0 {
			// Atomic unit with no separators left. Emit oversized.
			final = append(final, piece)
		} else {
			final = append(final, splitRecursive(piece, remaining, chunkSize, overlap)...)
		}
	}

	if len(pending) > 0 {
		final = append(final, mergeSplits(pending, chunkSize, overlap)...)
	}
	return final
}

// splitKeepingSeparator splits text on sep, keeping the separator attached
// to the start of the following piece so no content is lost. An empty sep
// splits at rune granularity.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeSplits greedily packs small pieces into chunks of at most chunkSize
// characters. When a chunk is emitted, trailing pieces totalling at most
// overlap characters are carried into the next chunk.
func mergeSplits(splits []string, chunkSize, overlap int) []string {
	var chunks []string
	var window []string
	total := 0

	for _, s := range splits {
		if total+len(s) > chunkSize && len(window) > 0 {
			if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
				chunks = append(chunks, c)
			}
			// Shrink the window until it fits within the overlap budget
			// and leaves room for the incoming piece.
			for total > overlap || (total+len(s) > chunkSize && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, s)
		total += len(s)
	}

	if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}
