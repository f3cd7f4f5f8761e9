package navstate

import "hybridsearch/internal/domain"

// Parameter keys
const (
	KeyQuery = "q"
	KeyMode  = "searchMode"
)

// URLSync bridges the query state and a Store
type URLSync struct {
	store Store
}

func NewURLSync(store Store) *URLSync {
	return &URLSync{store: store}
}

// Load reads the initial query state. Any mode token other than chunk means group.
func (u *URLSync) Load() domain.QueryState {
	text, _ := u.store.Get(KeyQuery)
	mode, _ := u.store.Get(KeyMode)
	return domain.QueryState{Text: text, Mode: domain.ParseMode(mode)}
}

// Persist writes both fields in one replace
func (u *URLSync) Persist(state domain.QueryState) error {
	return u.store.Replace(map[string]string{
		KeyQuery: state.Text,
		KeyMode:  state.Mode.String(),
	})
}
