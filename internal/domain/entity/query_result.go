package entity

// QueryResult holds the result set of one reporting query
type QueryResult struct {
	Name      string   `json:"name"`
	Statement string   `json:"statement"`
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
}
