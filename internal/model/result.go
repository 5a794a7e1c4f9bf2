package model

// ResultTable is the output of one metric view: a small, already-sorted table
// ready for rendering as an HTML table, a terminal table, or JSON.
type ResultTable struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
