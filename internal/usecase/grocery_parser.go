package usecase

import (
	"strings"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/tidwall/gjson"
)

// parseStrategy turns a model reply into grocery items. ok reports whether
// the strategy claimed the reply; later strategies are skipped once one does.
type parseStrategy func(reply string) (items []domain.GroceryItem, ok bool)

// replyParsers are tried in order
var replyParsers = []parseStrategy{
	parseStrictJSON,
	parseEmbeddedObject,
}

// parseGroceryReply never fails: a reply no strategy understands yields an
// empty list
func parseGroceryReply(reply string) []domain.GroceryItem {
	for _, parse := range replyParsers {
		if items, ok := parse(reply); ok {
			return items
		}
	}
	return []domain.GroceryItem{}
}

// parseStrictJSON claims any reply that is valid JSON as a whole
func parseStrictJSON(reply string) ([]domain.GroceryItem, bool) {
	trimmed := strings.TrimSpace(reply)
	if !gjson.Valid(trimmed) {
		return nil, false
	}

	root := gjson.Parse(trimmed)
	if !root.IsObject() {
		return []domain.GroceryItem{}, true
	}
	return decodeGroceryItems(lastMember(root, "grocery_list")), true
}

// parseEmbeddedObject handles prose around a JSON object, e.g. markdown fences
func parseEmbeddedObject(reply string) ([]domain.GroceryItem, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, false
	}

	candidate := reply[start : end+1]
	if !gjson.Valid(candidate) {
		return nil, false
	}

	root := gjson.Parse(candidate)
	if items := lastMember(root, "items"); items.IsArray() && len(items.Array()) > 0 {
		return decodeGroceryItems(items), true
	}
	return decodeGroceryItems(lastMember(root, "grocery_list")), true
}

// lastMember returns the last value stored under key in obj. Duplicate keys
// resolve last-wins, as encoding/json and most decoders do.
func lastMember(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, value gjson.Result) bool {
		if k.String() == key {
			found = value
		}
		return true
	})
	return found
}

func decodeGroceryItems(list gjson.Result) []domain.GroceryItem {
	items := []domain.GroceryItem{}
	if !list.IsArray() {
		return items
	}

	list.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		items = append(items, domain.GroceryItem{
			ItemName: value.Get("item_name").String(),
			Quantity: value.Get("quantity").Float(),
			Unit:     value.Get("unit").String(),
		})
		return true
	})
	return items
}
