package xmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	m.Run()
}

func TestParse_RejectsEmptyAndNonXML(t *testing.T) {
	_, err := Parse("")
	require.ErrorIs(t, err, fw_errors.ErrEmptyResponse)

	_, err = Parse("   ")
	require.ErrorIs(t, err, fw_errors.ErrEmptyResponse)

	_, err = Parse("ERROR: invalid credentials")
	require.ErrorIs(t, err, fw_errors.ErrEmptyResponse)
}

func TestParse_RejectsMalformedXML(t *testing.T) {
	_, err := Parse("<root><unclosed></root>")
	require.Error(t, err)
}

func TestTextOf_FirstMatchingDescendantAnywhere(t *testing.T) {
	doc, err := Parse(`<root>
	  <wrapper>
	    <inner><Target>first</Target></inner>
	  </wrapper>
	  <Target>second</Target>
	</root>`)
	require.NoError(t, err)

	// Document order wins even when the match sits inside an unrelated
	// nested block; this is the behavior callers depend on.
	require.Equal(t, "first", TextOf(doc.Root(), "Target"))
}

func TestFindAll_DocumentOrderAcrossDepths(t *testing.T) {
	doc, err := Parse(`<root>
	  <wrapper>
	    <inner><Target>nested-first</Target></inner>
	  </wrapper>
	  <Target>shallow-second</Target>
	  <wrapper><Target>nested-third</Target></wrapper>
	</root>`)
	require.NoError(t, err)

	var texts []string
	for _, el := range FindAll(doc.Root(), "Target") {
		texts = append(texts, el.Text())
	}
	require.Equal(t, []string{"nested-first", "shallow-second", "nested-third"}, texts)
}

func TestTextOf_AbsentYieldsEmpty(t *testing.T) {
	doc, err := Parse(`<root><a>x</a></root>`)
	require.NoError(t, err)
	require.Equal(t, "", TextOf(doc.Root(), "missing"))
}

func TestNestedTextOf_WalksHopByHop(t *testing.T) {
	doc, err := Parse(`<root>
	  <Outer>
	    <Middle><Leaf>value</Leaf></Middle>
	  </Outer>
	</root>`)
	require.NoError(t, err)

	require.Equal(t, "value", NestedTextOf(doc.Root(), "Outer", "Middle", "Leaf"))
	require.Equal(t, "", NestedTextOf(doc.Root(), "Outer", "Absent", "Leaf"))
}

func TestNewDocument_AttributesStable(t *testing.T) {
	doc1, _ := NewDocument("Envelope", map[string]string{"b": "2", "a": "1"})
	doc2, _ := NewDocument("Envelope", map[string]string{"a": "1", "b": "2"})

	out1, err := Serialize(doc1)
	require.NoError(t, err)
	out2, err := Serialize(doc2)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
}

func TestSerialize_Reproducible(t *testing.T) {
	doc, root := NewDocument("AccessRules", nil)
	AppendText(root, "Task", "delete")

	out1, err := Serialize(doc)
	require.NoError(t, err)
	out2, err := Serialize(doc)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
	require.True(t, strings.Contains(out1, "<Task>delete</Task>"))
}
