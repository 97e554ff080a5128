package vpc

// DefaultGroupName is the name AWS gives the per-VPC default security group,
// which cannot be deleted.
const DefaultGroupName = "default"

type SecurityGroup struct {
	GroupID string
	Name    string
	VPCID   string
}

// IsDefault reports whether the group is a VPC default group.
func (sg SecurityGroup) IsDefault() bool {
	return sg.Name == DefaultGroupName
}
