package ec2

// Instance is the subset of an EC2 instance the reapers decide on.
type Instance struct {
	ID               string
	State            string
	Tags             map[string]string
	SecurityGroupIDs []string
}

// HasTag reports whether the instance carries key with one of values.
func (i Instance) HasTag(key string, values []string) bool {
	v, ok := i.Tags[key]
	if !ok {
		return false
	}
	for _, want := range values {
		if v == want {
			return true
		}
	}
	return false
}
