package index

// WordID is a dense identifier for one distinct spelling in an index.
// IDs are assigned in first-seen order starting at zero, which keeps them
// small and contiguous for roaring bitmaps.
type WordID = uint32

// wordMapper maps exact spellings to WordIDs and back.
type wordMapper struct {
	wordToID map[string]WordID
	words    []string
}

func newWordMapper() *wordMapper {
	return &wordMapper{wordToID: make(map[string]WordID)}
}

// assign returns the ID for word, allocating the next one if the spelling is new.
func (m *wordMapper) assign(word string) WordID {
	if id, ok := m.wordToID[word]; ok {
		return id
	}
	id := WordID(len(m.words))
	m.wordToID[word] = id
	m.words = append(m.words, word)
	return id
}

func (m *wordMapper) lookup(word string) (WordID, bool) {
	id, ok := m.wordToID[word]
	return id, ok
}

func (m *wordMapper) word(id WordID) (string, bool) {
	if int(id) >= len(m.words) {
		return "", false
	}
	return m.words[id], true
}

func (m *wordMapper) size() int { return len(m.words) }
