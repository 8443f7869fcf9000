package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/persist"
)

// clipKind tags clipboard text written by the editor.
const clipKind = "floorplan/elements"

type clipPayload struct {
	Kind     string           `json:"kind"`
	Elements []persist.Record `json:"elements"`
}

var errNotPlan = errors.New("clipboard does not hold floor plan elements")

// encodeClip serialises elements in the wire record format.
func encodeClip(c persist.Codec, els []element.Element) (string, error) {
	payload := clipPayload{Kind: clipKind}
	for _, e := range els {
		payload.Elements = append(payload.Elements, c.EncodeElement(e))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeClip parses clipboard text. Records that do not decode are
// skipped; text that is not ours is an error.
func decodeClip(c persist.Codec, text string) ([]element.Element, error) {
	var payload clipPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload.Kind != clipKind {
		return nil, errNotPlan
	}
	var out []element.Element
	for _, r := range payload.Elements {
		e, err := c.DecodeRecord(r)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// placeClip inserts decoded elements onto the current page with fresh
// ids, offset so they do not land on their originals. Parent links are
// kept only between pasted elements.
func placeClip(s *element.Store, els []element.Element) []element.Element {
	renamed := make(map[string]string, len(els))
	out := make([]element.Element, 0, len(els))
	for _, src := range els {
		cp := src
		cp.ID = ""
		cp.ParentID = ""
		cp.ReferenceID = ""
		cp.X += element.DuplicateOffset
		cp.Y += element.DuplicateOffset
		cp.PageNumber = s.Page()
		cp = s.Insert(cp)
		renamed[src.ID] = cp.ID
		out = append(out, cp)
	}
	for i, src := range els {
		if p, ok := renamed[src.ParentID]; ok && src.ParentID != "" {
			s.Update(out[i].ID, element.Patch{ParentID: element.Ptr(p)})
			out[i].ParentID = p
		}
	}
	return out
}

// mirrorClipboard writes the editor clipboard to the system clipboard so
// another editor instance can paste it.
func (ed *Editor) mirrorClipboard() {
	text, err := encodeClip(ed.sync.Codec, ed.ctx.Store.Clipboard())
	if err != nil {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		ed.showMessage("Copied (system clipboard unavailable)", MsgWarning)
	}
}

func (ed *Editor) pasteSystemClipboard() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ed.showMessage("Clipboard is empty", MsgInfo)
		return
	}
	els, err := decodeClip(ed.sync.Codec, text)
	if err != nil || len(els) == 0 {
		ed.showMessage("Clipboard is empty", MsgInfo)
		return
	}
	var placed []element.Element
	ed.ctx.Mutate("paste", func(s *element.Store) { placed = placeClip(s, els) })
	ids := make([]string, len(placed))
	for i, e := range placed {
		ids[i] = e.ID
	}
	ed.ctx.Selection.Set(ids...)
	ed.showMessage(fmt.Sprintf("Pasted %d from system clipboard", len(placed)), MsgSuccess)
}
