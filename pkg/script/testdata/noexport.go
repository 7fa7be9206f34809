package pets

var Other = 1
