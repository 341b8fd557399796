package value

// The web-platform value types (Blob, File, URL, URLSearchParams,
// Headers, FormData) are consumed through small capability
// interfaces rather than concrete structs: the core only needs their
// byte content, string form, and metadata, and the host owns the
// actual implementation (§1).

// ByteSource exposes the byte payload of a Blob/File.
type ByteSource interface {
	// Bytes returns the payload synchronously. Implementations backing
	// an async parse should prefer AsyncByteSource instead.
	Bytes() ([]byte, error)
}

// AsyncByteSource exposes a byte payload that may require suspension
// to read, mirroring how a host Blob's .arrayBuffer() returns a
// promise.
type AsyncByteSource interface {
	BytesAsync(await Awaiter) ([]byte, error)
}

// Awaiter is threaded through the async parser so capability
// implementations can suspend without importing internal/walk.
type Awaiter interface {
	Await() (any, error)
}

// BlobValue models a Blob: a byte source plus a MIME type.
type BlobValue struct {
	Source ByteSource
	Type   string
}

func (*BlobValue) Kind() Kind     { return KindBlob }
func (*BlobValue) referenceable() {}

// FileValue models a File: a Blob plus a name and a last-modified time.
type FileValue struct {
	BlobValue
	Name             string
	LastModifiedUnix int64
}

func (*FileValue) Kind() Kind { return KindFile }

// URLValue models a URL by its href string.
type URLValue struct {
	Href string
}

func (*URLValue) Kind() Kind     { return KindURL }
func (*URLValue) referenceable() {}

// URLSearchParamsValue models URLSearchParams as its href-encoded query string.
type URLSearchParamsValue struct {
	Query string
}

func (*URLSearchParamsValue) Kind() Kind     { return KindURLSearchParams }
func (*URLSearchParamsValue) referenceable() {}

// HeadersValue models a Headers bag as ordered name/value pairs.
type HeadersValue struct {
	Names  []string
	Values []string
}

func (*HeadersValue) Kind() Kind     { return KindHeaders }
func (*HeadersValue) referenceable() {}

// FormDataEntry is one name/value pair of a FormData; Value is either
// a Str or a *FileValue.
type FormDataEntry struct {
	Name  string
	Value Value
}

// FormDataValue models a FormData as ordered entries.
type FormDataValue struct {
	Entries []FormDataEntry
}

func (*FormDataValue) Kind() Kind     { return KindFormData }
func (*FormDataValue) referenceable() {}
