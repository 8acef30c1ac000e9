// Package cache persists a symbol.Index to a single file so that a scan
// survives process restarts.
//
// The file holds a google.protobuf.Struct of the form
//
//	{
//	  "version": 1,
//	  "generated": "2026-01-02T15:04:05Z",
//	  "symbols": {
//	    "app\\models\\user": "/srv/app/Models/User.php",
//	    "missing": null
//	  }
//	}
//
// where a null value is a tombstone.  The encoding follows the file
// extension (see package protobuf).  The generated timestamp is
// informational only.
package cache

import (
	"io/fs"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stackb/autoloader/pkg/protobuf"
	"github.com/stackb/autoloader/pkg/symbol"
)

const (
	formatVersion = 1

	fieldVersion   = "version"
	fieldGenerated = "generated"
	fieldSymbols   = "symbols"
)

// FileMode is the permission of written cache files.
var FileMode fs.FileMode = 0o644

// now is replaced in tests.
var now = time.Now

// Load reads the index stored at location.  A missing file yields an empty
// index and no error.  An unreadable or malformed file yields an empty index
// together with the error so the caller can log it and carry on.
func Load(location string) (*symbol.Index, error) {
	var msg structpb.Struct
	if err := protobuf.ReadFile(location, &msg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return symbol.NewIndex(), nil
		}
		return symbol.NewIndex(), errors.Wrapf(err, "load cache")
	}
	ix, err := Decode(&msg)
	if err != nil {
		return symbol.NewIndex(), errors.Wrapf(err, "load cache %s", location)
	}
	return ix, nil
}

// Save writes the index to location, creating missing parent directories.
func Save(location string, ix *symbol.Index) error {
	if err := protobuf.WriteFile(location, Encode(ix, now()), FileMode); err != nil {
		return errors.Wrapf(err, "save cache")
	}
	return nil
}

// Encode converts the index to its persisted form.
func Encode(ix *symbol.Index, generated time.Time) *structpb.Struct {
	symbols := &structpb.Struct{Fields: make(map[string]*structpb.Value, ix.Len())}
	for name, entry := range ix.Snapshot() {
		if entry.Negative {
			symbols.Fields[string(name)] = structpb.NewNullValue()
		} else {
			symbols.Fields[string(name)] = structpb.NewStringValue(entry.Location)
		}
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldVersion:   structpb.NewNumberValue(formatVersion),
			fieldGenerated: structpb.NewStringValue(generated.UTC().Format(time.RFC3339)),
			fieldSymbols:   structpb.NewStructValue(symbols),
		},
	}
}

// Decode converts the persisted form back to an index.
func Decode(msg *structpb.Struct) (*symbol.Index, error) {
	if v, ok := msg.Fields[fieldVersion]; ok {
		if version := v.GetNumberValue(); version != formatVersion {
			return nil, errors.Errorf("unsupported cache version %v", version)
		}
	}
	ix := symbol.NewIndex()
	symbols, ok := msg.Fields[fieldSymbols]
	if !ok {
		return ix, nil
	}
	st := symbols.GetStructValue()
	if st == nil {
		return nil, errors.Errorf("%q is not an object", fieldSymbols)
	}
	entries := make(map[symbol.Name]symbol.Entry, len(st.Fields))
	for name, value := range st.Fields {
		switch kind := value.GetKind().(type) {
		case *structpb.Value_NullValue:
			entries[symbol.Name(name)] = symbol.NegativeMarker
		case *structpb.Value_StringValue:
			entries[symbol.Name(name)] = symbol.Located(kind.StringValue)
		default:
			return nil, errors.Errorf("symbol %q: unexpected value %v", name, value)
		}
	}
	return symbol.IndexOf(entries), nil
}

// Generated returns the informational timestamp of the cache file at
// location.
func Generated(location string) (time.Time, error) {
	var msg structpb.Struct
	if err := protobuf.ReadFile(location, &msg); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, msg.Fields[fieldGenerated].GetStringValue())
}
