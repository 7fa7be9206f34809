package pets

var Default = {
