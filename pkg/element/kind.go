package element

import "fmt"

// Kind identifies what an element represents on the plan.
type Kind string

const (
	KindRoom       Kind = "room"
	KindBuilding   Kind = "building"
	KindWirelessAP Kind = "wireless_ap"
	KindShape      Kind = "shape"
	KindNameBox    Kind = "name_box"
	KindSeat       Kind = "seat"
	KindDevice     Kind = "device"
	KindEntrance   Kind = "entrance"
	KindStairs     Kind = "stairs"
	KindToilet     Kind = "toilet"
	KindElevator   Kind = "elevator"
	KindMDFIDF     Kind = "mdf_idf"
)

// Kinds lists every kind in palette order.
var Kinds = []Kind{
	KindRoom, KindBuilding, KindWirelessAP, KindShape, KindNameBox, KindSeat,
	KindDevice, KindEntrance, KindStairs, KindToilet, KindElevator, KindMDFIDF,
}

// kindInfo holds the per-kind defaults used when props are omitted.
type kindInfo struct {
	width, height float64
	radius        float64
	color         string
	border        string
	container     bool // children follow it on drag and z-order changes
	accessory     bool // lives inside a parent's bounds
}

var kindTable = map[Kind]kindInfo{
	KindRoom:       {width: 200, height: 150, color: "#e3f2fd", border: "#1565c0", container: true},
	KindBuilding:   {width: 600, height: 400, color: "#f5f5f5", border: "#333333", container: true},
	KindWirelessAP: {width: 30, height: 30, radius: 15, color: "#e65100", border: "#bf360c"},
	KindShape:      {width: 100, height: 100, color: "#cfd8dc", border: "#455a64"},
	KindNameBox:    {width: 120, height: 30, color: "#ffffff", border: "#90a4ae", accessory: true},
	KindSeat:       {width: 30, height: 30, color: "#c8e6c9", border: "#2e7d32", accessory: true},
	KindDevice:     {width: 40, height: 40, color: "#d1c4e9", border: "#4527a0", accessory: true},
	KindEntrance:   {width: 60, height: 20, color: "#fff3e0", border: "#e65100"},
	KindStairs:     {width: 60, height: 80, color: "#eeeeee", border: "#616161"},
	KindToilet:     {width: 60, height: 60, color: "#e0f7fa", border: "#00838f"},
	KindElevator:   {width: 60, height: 60, color: "#ede7f6", border: "#5e35b1"},
	KindMDFIDF:     {width: 50, height: 50, color: "#ffebee", border: "#c62828"},
}

// ParseKind converts a wire name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindTable[k]; !ok {
		return "", fmt.Errorf("unknown element type %q", s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// Container reports whether elements of this kind carry children along
// when moved or restacked.
func (k Kind) Container() bool { return kindTable[k].container }

// Accessory reports whether elements of this kind are kept inside their
// parent's bounds.
func (k Kind) Accessory() bool { return kindTable[k].accessory }

// DefaultSize returns the width and height used when none is given.
func (k Kind) DefaultSize() (float64, float64) {
	info := kindTable[k]
	return info.width, info.height
}

// DefaultColors returns the fill and border colours for the kind.
func (k Kind) DefaultColors() (fill, border string) {
	info := kindTable[k]
	return info.color, info.border
}
