package directory

import (
	"errors"
	"sort"
)

// ErrEmptyDirectory indicates the master directory source returned no usable
// records. Nothing can be reconciled or encoded without reference data.
var ErrEmptyDirectory = errors.New("master directory is empty")

// PincodeRecord is one row of the master directory: the authoritative
// zone/state/city assignment for a pincode.
type PincodeRecord struct {
	Pincode int    `json:"pincode"`
	Zone    string `json:"zone"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// Directory is the loaded master directory. It is built once and never
// mutated afterwards, so a single instance is safe to share across
// concurrent encode calls.
type Directory struct {
	zonePincodes map[string][]int
	pincodeZone  map[int]string
	zones        []string
	records      map[int]PincodeRecord
}

// Load builds a Directory from master records. A pincode appearing more than
// once keeps the last record (last-write-wins). Returns ErrEmptyDirectory
// when records is empty.
func Load(records []PincodeRecord) (*Directory, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDirectory
	}

	d := &Directory{
		zonePincodes: make(map[string][]int),
		pincodeZone:  make(map[int]string),
		records:      make(map[int]PincodeRecord, len(records)),
	}

	for _, rec := range records {
		d.records[rec.Pincode] = rec
		d.pincodeZone[rec.Pincode] = rec.Zone
	}

	for pincode, zone := range d.pincodeZone {
		d.zonePincodes[zone] = append(d.zonePincodes[zone], pincode)
	}

	for zone, pincodes := range d.zonePincodes {
		sort.Ints(pincodes)
		d.zones = append(d.zones, zone)
	}
	sort.Strings(d.zones)

	return d, nil
}

// ZonePincodes returns the sorted master pincodes for a zone. Unknown zones
// return an empty slice. The returned slice is shared; callers must not
// modify it.
func (d *Directory) ZonePincodes(zone string) []int {
	pincodes, ok := d.zonePincodes[zone]
	if !ok {
		return []int{}
	}
	return pincodes
}

// ZoneOf resolves the master zone for a pincode. The second return is false
// when the pincode is absent from the directory.
func (d *Directory) ZoneOf(pincode int) (string, bool) {
	zone, ok := d.pincodeZone[pincode]
	return zone, ok
}

// Record returns the full master record for a pincode.
func (d *Directory) Record(pincode int) (PincodeRecord, bool) {
	rec, ok := d.records[pincode]
	return rec, ok
}

// Zones returns every zone code known to the directory, sorted.
func (d *Directory) Zones() []string {
	return d.zones
}

// Len returns the number of distinct pincodes in the directory.
func (d *Directory) Len() int {
	return len(d.pincodeZone)
}
