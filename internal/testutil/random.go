package testutil

import (
	"math/rand"
	"strconv"
	"strings"
)

var leftNames = []string{
	"brave", "calm", "eager", "gentle", "kind", "proud", "quiet", "sharp", "wise", "zealous",
	"bold", "clever", "curious", "daring", "focused", "graceful", "humble", "jolly", "lively", "merry",
}

var rightNames = []string{
	"student", "school", "section", "session", "program", "course", "staff", "grade", "cohort", "calendar",
	"assessment", "objective", "intervention", "credential", "survey", "location", "address", "contact", "period", "term",
}

// RandName returns a random snake_case name.
func RandName() string {
	left := leftNames[rand.Intn(len(leftNames))]
	right := rightNames[rand.Intn(len(rightNames))]
	return left + "_" + right + "_" + strconv.Itoa(rand.Intn(50))
}

// RandEntityName returns a random name valid as a model identifier, such as
// "CuriousSection17".
func RandEntityName() string {
	var b strings.Builder
	for _, part := range strings.Split(RandName(), "_") {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}
