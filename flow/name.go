package flow

import "strings"

// Named is the interface for all the components and links with a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
// Names are organized hierarchically with dot separators ("Basin.Reservoir"),
// each element non-empty, capitalized CamelCase, with no separators or
// quote characters inside it.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("Name " + name + " is not valid: " + r.(string))
		}
	}()

	for _, elem := range strings.Split(name, ".") {
		nameElementMustBeValid(elem)
	}
}

func nameElementMustBeValid(elem string) {
	if elem == "" {
		panic("Name element must not be empty")
	}

	invalidChars := []string{
		"_", "\"", "'", "-", " ",
	}

	for _, c := range invalidChars {
		if strings.Contains(elem, c) {
			panic("Name element must not contain " + c)
		}
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		panic("Name element must start with a capital letter")
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
