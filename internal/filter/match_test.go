package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KeywordBoundarySearch_ShouldMatchWholeWordsOnly(t *testing.T) {

	assert.True(t, KeywordBoundarySearch("we love python here", "python"))
	assert.False(t, KeywordBoundarySearch("pythonic code style", "python"))
	assert.False(t, KeywordBoundarySearch("micropython boards", "python"))
}

func Test_KeywordBoundarySearch_ShouldBeCaseInsensitive(t *testing.T) {

	assert.True(t, KeywordBoundarySearch("Experience with Python required", "python"))
	assert.True(t, KeywordBoundarySearch("experience with python", "Python"))
}

func Test_KeywordBoundarySearch_ShouldTreatPunctuationAsBoundary(t *testing.T) {

	assert.True(t, KeywordBoundarySearch("python, go and rust", "python"))
	assert.True(t, KeywordBoundarySearch("(python)", "python"))
	assert.True(t, KeywordBoundarySearch("knowledge of c++", "c++"))
	assert.True(t, KeywordBoundarySearch("c# developer wanted", "c#"))
}

func Test_KeywordBoundarySearch_ShouldTreatUnderscoreAsWordChar(t *testing.T) {

	assert.False(t, KeywordBoundarySearch("python_scripts repo", "python"))
	assert.False(t, KeywordBoundarySearch("my_python tooling", "python"))
}

func Test_KeywordBoundarySearch_ShouldFindLaterOccurrence(t *testing.T) {

	// First occurrence fails the boundary check, a later one passes.
	assert.True(t, KeywordBoundarySearch("pythonic but also python", "python"))
}

func Test_KeywordBoundarySearch_WhenKeywordEmpty_ShouldNotMatch(t *testing.T) {

	assert.False(t, KeywordBoundarySearch("anything", ""))
}

func Test_KeywordBoundarySearch_ShouldMatchAtStringEdges(t *testing.T) {

	assert.True(t, KeywordBoundarySearch("python", "python"))
	assert.True(t, KeywordBoundarySearch("python first", "python"))
	assert.True(t, KeywordBoundarySearch("ends with python", "python"))
}
