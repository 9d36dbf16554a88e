package credstore

import "fmt"

type (
	UserNotFound struct {
		ID   int64
		Name string
	}

	NameTaken struct {
		Name string
	}
)

func (u UserNotFound) Error() string {
	if u.Name != "" {
		return fmt.Sprintf("user %q not found", u.Name)
	}
	return fmt.Sprintf("user with id %v not found", u.ID)
}

// Is matches any UserNotFound, regardless of the key used in the lookup.
func (u UserNotFound) Is(target error) bool {
	_, ok := target.(UserNotFound)
	return ok
}

func (n NameTaken) Error() string {
	return fmt.Sprintf("name %q is already taken", n.Name)
}

func (n NameTaken) Is(target error) bool {
	_, ok := target.(NameTaken)
	return ok
}
