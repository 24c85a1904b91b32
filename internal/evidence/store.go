package evidence

import "context"

// Store is the binary object store behind complaint evidence files.
type Store interface {
	// Put writes data under name with the given content type and returns the
	// stored name.
	Put(ctx context.Context, data []byte, contentType, name string) (string, error)

	// TemporaryURL returns a time-limited read-only URL for name. A blank
	// name, the "None" sentinel, or an absent object all yield ("", nil):
	// having no evidence is a normal outcome, not a failure. Infrastructure
	// errors (listing, signing) are returned as errors.
	TemporaryURL(ctx context.Context, name string) (string, error)
}

// ObjectName derives the stored object name for a complaint's evidence file.
func ObjectName(trackingID, filename string) string {
	return trackingID + "_" + filename
}
