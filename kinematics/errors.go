package kinematics

import "github.com/pkg/errors"

// NewIncorrectDoFError returns an error indicating that the number of joint positions
// handed to a model does not match its degrees of freedom.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of joint positions %d does not match the model's degrees of freedom %d", actual, expected)
}

// NewUnknownJointError returns an error for a joint name the model does not contain.
func NewUnknownJointError(name string) error {
	return errors.Errorf("joint %q is not part of the robot description", name)
}

// NewUnknownLinkError returns an error for a link name the model does not contain.
func NewUnknownLinkError(name string) error {
	return errors.Errorf("link %q is not part of the robot description", name)
}

// NewFixedJointError is returned when a fixed joint is requested as a degree of freedom.
func NewFixedJointError(name string) error {
	return errors.Errorf("joint %q is fixed and cannot be a degree of freedom", name)
}

// NewDuplicateJointError is returned when a joint is listed twice in a joint list.
func NewDuplicateJointError(name string) error {
	return errors.Errorf("joint %q is listed more than once", name)
}

// NewUnsupportedJointTypeError is used when a joint type is not one of fixed, revolute, continuous or prismatic.
func NewUnsupportedJointTypeError(jointName, jointType string) error {
	return errors.Errorf("joint %q has unsupported type %q", jointName, jointType)
}
