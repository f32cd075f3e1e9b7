package domain

import "regexp"

// DefaultBoardID is used when a task's account has no board mapping.
const DefaultBoardID = "17"

// BoardMapping ties a slot (or account) to the cafe and board it posts to.
type BoardMapping struct {
	Key       string
	CafeID    string
	BoardID   string
	CafeName  string
	BoardName string
}

var boardURLPattern = regexp.MustCompile(`cafe\.naver\.com/f-e/cafes/(\d+)/menus/(\d+)`)

// ParseBoardURL extracts the cafe and board ids from a board URL of the
// form https://cafe.naver.com/f-e/cafes/27433401/menus/17?viewType=T.
func ParseBoardURL(rawURL string) (cafeID, boardID string, ok bool) {
	m := boardURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
