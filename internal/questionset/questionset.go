// Package questionset models host-imported question sets: an ordered list of
// chapters, each holding an ordered list of questions, navigated by a cursor.
// The content is treated as opaque; the package only answers bounds questions.
package questionset

// Question is one importable question. Variant and options are validated when
// a round is started from the question, not at import time.
type Question struct {
	Question      string   `json:"question"`
	Variant       string   `json:"variant"`
	Options       []string `json:"options,omitempty"`
	AnswerForBoth bool     `json:"answerForBoth,omitempty"`
}

type Chapter struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Set struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// Empty reports whether the set holds no questions at all.
func (s *Set) Empty() bool {
	for _, c := range s.Chapters {
		if len(c.Questions) > 0 {
			return false
		}
	}
	return true
}

// At returns the question at (chapter, question), false when out of bounds.
func (s *Set) At(chapter, question int) (Question, bool) {
	if chapter < 0 || chapter >= len(s.Chapters) {
		return Question{}, false
	}
	c := s.Chapters[chapter]
	if question < 0 || question >= len(c.Questions) {
		return Question{}, false
	}
	return c.Questions[question], true
}

// Next returns the position after (chapter, question), rolling over to the
// next non-empty chapter. ok is false at the end of the set.
func (s *Set) Next(chapter, question int) (nextChapter, nextQuestion int, ok bool) {
	if _, inBounds := s.At(chapter, question); !inBounds {
		return 0, 0, false
	}
	if question+1 < len(s.Chapters[chapter].Questions) {
		return chapter, question + 1, true
	}
	for c := chapter + 1; c < len(s.Chapters); c++ {
		if len(s.Chapters[c].Questions) > 0 {
			return c, 0, true
		}
	}
	return 0, 0, false
}

// Prev returns the position before (chapter, question), rolling back to the
// previous non-empty chapter. ok is false at the start of the set.
func (s *Set) Prev(chapter, question int) (prevChapter, prevQuestion int, ok bool) {
	if _, inBounds := s.At(chapter, question); !inBounds {
		return 0, 0, false
	}
	if question > 0 {
		return chapter, question - 1, true
	}
	for c := chapter - 1; c >= 0; c-- {
		if n := len(s.Chapters[c].Questions); n > 0 {
			return c, n - 1, true
		}
	}
	return 0, 0, false
}

// First returns the position of the first question in the set, false when the
// set is empty.
func (s *Set) First() (chapter, question int, ok bool) {
	for c := range s.Chapters {
		if len(s.Chapters[c].Questions) > 0 {
			return c, 0, true
		}
	}
	return 0, 0, false
}
