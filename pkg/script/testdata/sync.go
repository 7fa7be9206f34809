package pets

import "strings"

func Default() []string {
	return strings.Split("corgi,malamute", ",")
}
