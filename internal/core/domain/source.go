package domain

// Source is a (file, page) citation attached to an answer.
type Source struct {
	// File is the display name of the cited document.
	File string

	// Page is the 1-based page number. Zero means unknown.
	Page int
}

// SourceFromChunk derives the citation for a retrieved chunk.
func SourceFromChunk(c RetrievedChunk) Source {
	return Source{File: c.Metadata.DisplayFileName(), Page: c.Metadata.PageNumber}
}

// DedupeSources removes repeated (file, page) pairs keeping the first
// occurrence of each and preserving order.
func DedupeSources(sources []Source) []Source {
	seen := make(map[Source]struct{}, len(sources))
	result := make([]Source, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// SourcesFromChunks returns the deduplicated citations for ranked chunks.
func SourcesFromChunks(chunks []RetrievedChunk) []Source {
	sources := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, SourceFromChunk(c))
	}
	return DedupeSources(sources)
}
