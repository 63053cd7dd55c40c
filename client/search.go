package client

const searchKey = "search"

// SearchState is the last keyword searched and its results.
type SearchState struct {
	Keyword string    `json:"keyword"`
	Results []Product `json:"results"`
}

// Search keeps the current search state and persists it under the "search"
// key so the last query survives a restart.
type Search struct {
	store Store
	state SearchState
}

func NewSearch(store Store) (*Search, error) {
	s := &Search{store: store}
	if _, err := store.Load(searchKey, &s.state); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Search) Get() SearchState {
	return s.state
}

func (s *Search) Set(keyword string, results []Product) error {
	s.state = SearchState{Keyword: keyword, Results: results}
	return s.store.Save(searchKey, s.state)
}

// Reset clears the keyword and results.
func (s *Search) Reset() error {
	s.state = SearchState{}
	return s.store.Clear(searchKey)
}
