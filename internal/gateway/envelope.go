package gateway

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fastjson"

	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// Responses use the envelope {status, message, data}; some endpoints answer
// with a bare payload instead. Values from a pooled parser are only valid
// until the parser is returned, so decoding happens inside the borrow.
var parsers fastjson.ParserPool

// backendMessage extracts "message" (or "error.message") from a response body.
func backendMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return ""
	}
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	if v.Type() != fastjson.TypeObject {
		return ""
	}
	if msg := v.GetStringBytes("message"); len(msg) > 0 {
		return string(msg)
	}
	return string(v.GetStringBytes("error", "message"))
}

// decodeData unmarshals the envelope's data into out. A body without a data
// key is decoded as the payload itself.
func decodeData(body []byte, what string, out any) error {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return apperrors.NewMalformedResponse(what, err)
	}
	payload := v
	if v.Type() == fastjson.TypeObject && v.Exists("data") {
		payload = v.Get("data")
	}
	if payload.Type() == fastjson.TypeNull {
		return apperrors.NewMalformedResponse(what, errNoData)
	}
	if err := json.Unmarshal(payload.MarshalTo(nil), out); err != nil {
		return apperrors.NewMalformedResponse(what, err)
	}
	return nil
}

// decodeList accepts a bare array, an envelope whose data is an array, a
// paginated object with "content" (or one of listKeys), or a single object.
func decodeList[T any](body []byte, what string, listKeys ...string) ([]T, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, apperrors.NewMalformedResponse(what, err)
	}
	node := v
	if v.Type() == fastjson.TypeObject && v.Exists("data") {
		node = v.Get("data")
	}

	var items []*fastjson.Value
	switch node.Type() {
	case fastjson.TypeNull:
		return []T{}, nil
	case fastjson.TypeArray:
		items, _ = node.Array()
	case fastjson.TypeObject:
		items = listItems(node, listKeys)
	default:
		return nil, apperrors.NewMalformedResponse(what, errors.New("expected a list"))
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var decoded T
		if err := json.Unmarshal(item.MarshalTo(nil), &decoded); err != nil {
			return nil, apperrors.NewMalformedResponse(what, err)
		}
		out = append(out, decoded)
	}
	return out, nil
}

func listItems(node *fastjson.Value, listKeys []string) []*fastjson.Value {
	for _, key := range append([]string{"content"}, listKeys...) {
		if inner := node.Get(key); inner != nil && inner.Type() == fastjson.TypeArray {
			items, _ := inner.Array()
			return items
		}
	}
	obj, _ := node.Object()
	if obj == nil || obj.Len() == 0 {
		return nil
	}
	return []*fastjson.Value{node}
}
