package app

// Topic is a chat conversation members can join.
type Topic struct {
	ID    string
	Title string
}

// Topics lists the chat topics in display order.
var Topics = []Topic{
	{ID: "self-care", Title: "Egenvård"},
	{ID: "relationships", Title: "Relationer"},
	{ID: "work", Title: "Arbete och studier"},
	{ID: "sleep", Title: "Sömn"},
	{ID: "anxiety", Title: "Oro och ångest"},
}

// TopicTitle returns the display title for id, or id itself when unknown.
func TopicTitle(id string) string {
	for _, t := range Topics {
		if t.ID == id {
			return t.Title
		}
	}
	return id
}
