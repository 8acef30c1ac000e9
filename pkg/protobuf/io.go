package protobuf

import (
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type marshaler func(m protoreflect.ProtoMessage) ([]byte, error)
type unmarshaler func(b []byte, m protoreflect.ProtoMessage) error

var prettyJSON = protojson.MarshalOptions{
	Multiline:       true,
	Indent:          "  ",
	EmitUnpopulated: false,
}

var prettyText = prototext.MarshalOptions{
	Multiline: true,
	Indent:    "  ",
}

func unmarshalerForFilename(filename string) unmarshaler {
	switch filepath.Ext(filename) {
	case ".json":
		return protojson.Unmarshal
	case ".pbtext":
		return prototext.Unmarshal
	}
	return proto.Unmarshal
}

func marshalerForFilename(filename string) marshaler {
	switch filepath.Ext(filename) {
	case ".json":
		return prettyJSON.Marshal
	case ".pbtext":
		return prettyText.Marshal
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal
}

// ReadFile reads a message from the file, choosing the encoding by the file
// extension: .json (protojson), .pbtext (prototext) or binary otherwise.
func ReadFile(filename string, message protoreflect.ProtoMessage) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read %q: %w", filename, err)
	}
	if err := unmarshalerForFilename(filename)(data, message); err != nil {
		return fmt.Errorf("unmarshal %q: %w", filename, err)
	}
	return nil
}

// WriteFile writes the message to the file, creating missing parent
// directories.  The file is written to a temporary sibling first and renamed
// into place, so readers never observe a partial file.
func WriteFile(filename string, message protoreflect.ProtoMessage, perm os.FileMode) error {
	data, err := marshalerForFilename(filename)(message)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
