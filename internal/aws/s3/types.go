package s3

// Object describes an uploaded report object.
type Object struct {
	Bucket string
	Key    string
	Region string
	ETag   string
}
