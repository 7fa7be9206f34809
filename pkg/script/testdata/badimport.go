package pets

import "github.com/example/pets"

var Default = pets.All
