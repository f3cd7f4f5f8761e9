package domain

// Mode selects how the backend shapes results
type Mode int

const (
	ModeGroup Mode = iota
	ModeChunk
)

// Modes lists every mode in a stable order
var Modes = []Mode{ModeGroup, ModeChunk}

// Persisted tokens for each mode
const (
	GroupToken = "group"
	ChunkToken = "chunk"
)

// String returns the persisted token for the mode
func (m Mode) String() string {
	if m == ModeChunk {
		return ChunkToken
	}
	return GroupToken
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == ModeChunk {
		return ModeGroup
	}
	return ModeChunk
}

// ParseMode maps a persisted token to a mode.
// Anything that is not exactly the chunk token is group mode.
func ParseMode(token string) Mode {
	if token == ChunkToken {
		return ModeChunk
	}
	return ModeGroup
}

// QueryState is the canonical (text, mode) pair
type QueryState struct {
	Text string
	Mode Mode
}

// Empty reports whether there is nothing to search for
func (s QueryState) Empty() bool {
	return s.Text == ""
}

// ChunkMetadata is a single search hit
type ChunkMetadata struct {
	ID        string  `json:"id"`
	ChunkHTML string  `json:"chunk_html"`
	Link      *string `json:"link"`
}

// Target returns the link to open for the chunk, empty if it has none
func (c ChunkMetadata) Target() string {
	if c.Link == nil {
		return ""
	}
	return *c.Link
}

// Group is a named cluster of hits returned in group mode
type Group struct {
	Name    string
	Entries []ChunkMetadata
}

// ResultSet is either GroupResults or ChunkResults
type ResultSet interface {
	Mode() Mode
	Len() int
	// Items flattens the set into selectable hits in display order
	Items() []ChunkMetadata
	isResultSet()
}

// GroupResults is the result shape for group mode
type GroupResults []Group

func (GroupResults) Mode() Mode { return ModeGroup }

func (r GroupResults) Len() int {
	n := 0
	for _, g := range r {
		n += len(g.Entries)
	}
	return n
}

func (r GroupResults) Items() []ChunkMetadata {
	items := make([]ChunkMetadata, 0, r.Len())
	for _, g := range r {
		items = append(items, g.Entries...)
	}
	return items
}

func (GroupResults) isResultSet() {}

// ChunkResults is the result shape for chunk mode
type ChunkResults []ChunkMetadata

func (ChunkResults) Mode() Mode { return ModeChunk }

func (r ChunkResults) Len() int { return len(r) }

func (r ChunkResults) Items() []ChunkMetadata {
	items := make([]ChunkMetadata, len(r))
	copy(items, r)
	return items
}

func (ChunkResults) isResultSet() {}
