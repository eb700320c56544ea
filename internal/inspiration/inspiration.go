// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inspiration holds question templates and random words that seed
// new questions and answers.
package inspiration

import (
	"fmt"
	"math/rand"
	"strings"
)

// DefaultWordCount is how many random words are dealt when n is not positive
const DefaultWordCount = 10

// Blank marks the spot in a template the user fills in
const Blank = "_______"

type category struct {
	name      string
	templates []string
}

var categories = []category{
	{"Hypothetical Questions", []string{
		"What's the weirdest way _______ could happen?",
		"What if _______?",
		"How would the world change if _______?",
		"What if it's not the first time _______?",
	}},
	{"Alternate Possibilities", []string{
		"Can this happen in any other way?",
		"What's another reason this could happen?",
		"If this event didn't happen, what could take its place?",
		"What's a completely different approach to _______?",
	}},
	{"Tweaking Small Details", []string{
		"What's the smallest change that could completely alter _______?",
		"How would this story change if the setting was different?",
		"What if this took place 100 years in the past/future?",
		"How would _______ change if one small detail was different?",
	}},
	{"Consequence-Based", []string{
		"What happens after _______?",
		"What's the worst/best outcome of _______?",
		"How could _______ lead to something unexpected?",
		"What are the long-term effects of _______?",
	}},
	{"Reversal Questions", []string{
		"What if the opposite of _______ happened?",
		"How would this story change if the hero was the villain?",
		"What if the problem was actually the solution?",
		"What if we did the exact opposite of _______?",
	}},
	{"Perspective-Shifting", []string{
		"How would a child/animal/robot experience _______?",
		"What would an outsider think about _______?",
		"How would a character who believes the exact opposite react to _______?",
		"What would _______ look like from a different perspective?",
	}},
	{"Exaggeration & Absurdity", []string{
		"What's the most ridiculous version of _______?",
		"What if everything about _______ was twice as big/small/fast/slow?",
		"What's the dumbest way _______ could go wrong?",
		"What if _______ was taken to the extreme?",
	}},
	{"Combination Questions", []string{
		"What if _______ and _______ were combined?",
		"What happens when a _______ meets a _______?",
		"What's an unusual way to solve _______?",
		"How could we combine _______ with something unexpected?",
	}},
	{"Restriction Questions", []string{
		"How would you tell this story without using dialogue?",
		"What if the main character could only communicate in gestures?",
		"How would this play out if it had to happen in 60 seconds?",
		"What if _______ had to work with severe limitations?",
	}},
	{"Removal Questions", []string{
		"What if _______ was removed from the world?",
		"How would this work without _______?",
		"What happens if the main character loses their main ability?",
		"What if we took away _______ from this situation?",
	}},
	{`"But" Questions`, []string{
		"What if _______ but they didn't want it?",
		"What if _______ but it made things worse?",
		"What if _______ but no one believed them?",
		"What if _______ but it was already too late?",
		"What if _______ but they were lying?",
	}},
}

var words = []string{
	"Elephant", "Cloud", "Mirror", "Clock", "Bridge", "Key", "Lightning", "Maze", "Rocket", "Puzzle",
	"Ocean", "Mountain", "Fire", "Ice", "Wind", "Earth", "Star", "Moon", "Sun", "Rain",
	"Tree", "Flower", "Bird", "Fish", "Lion", "Tiger", "Bear", "Wolf", "Eagle", "Butterfly",
	"Book", "Pen", "Paper", "Computer", "Phone", "Camera", "Car", "Bike", "Plane", "Ship",
	"House", "Door", "Window", "Garden", "Kitchen", "Bedroom", "Library", "Museum", "Park", "Beach",
}

// Categories returns the template category names in display order
func Categories() []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.name)
	}
	return out
}

// Templates returns the templates of a category. Matching ignores case and
// surrounding space; an unknown category returns nil.
func Templates(name string) []string {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(c.name, name) {
			return append([]string(nil), c.templates...)
		}
	}
	return nil
}

// Template returns template i (zero based) of a category
func Template(name string, i int) (string, error) {
	templates := Templates(name)
	if templates == nil {
		return "", fmt.Errorf("unknown template category %q", name)
	}
	if i < 0 || i >= len(templates) {
		return "", fmt.Errorf("category %q has %d templates, index %d is out of range", name, len(templates), i)
	}
	return templates[i], nil
}

// Fill replaces the blanks of a template with subject, in order. Extra blanks
// keep the last subject.
func Fill(template string, subjects ...string) string {
	if len(subjects) == 0 {
		return template
	}
	out := template
	for i := 0; strings.Contains(out, Blank); i++ {
		s := subjects[len(subjects)-1]
		if i < len(subjects) {
			s = subjects[i]
		}
		out = strings.Replace(out, Blank, s, 1)
	}
	return out
}

// Words returns the full word list
func Words() []string {
	return append([]string(nil), words...)
}

// RandomWords deals n distinct words. n <= 0 deals DefaultWordCount and
// n is capped at the list size. A nil rng uses the global source.
func RandomWords(n int, rng *rand.Rand) []string {
	if n <= 0 {
		n = DefaultWordCount
	}
	if n > len(words) {
		n = len(words)
	}
	shuffled := Words()
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	return shuffled[:n]
}

// WordAnswer is the answer text added for a random word
func WordAnswer(word string) string {
	return fmt.Sprintf("Use %q as inspiration", strings.TrimSpace(word))
}
