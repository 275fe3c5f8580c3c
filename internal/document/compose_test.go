package document_test

import (
	"testing"

	"github.com/djoezeke/myyaml/internal/document"
	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func compose(t *testing.T, input string) *document.Document {
	t.Helper()
	doc, err := composeErr(input)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func composeErr(input string) (*document.Document, error) {
	parser := parserc.New(nil)
	parser.Input = []byte(input)
	return document.NewComposer(parser).Compose()
}

func TestComposeBlockSequence(t *testing.T) {
	doc := compose(t, "- a\n- b\n- c\n")

	root := doc.GetRootNode()
	require.NotNil(t, root)
	require.Equal(t, document.SequenceNode, root.Kind)
	require.Equal(t, yamlh.DEFAULT_SEQUENCE_TAG, root.Tag)
	require.Equal(t, []int{2, 3, 4}, root.Items)

	for i, want := range []string{"a", "b", "c"} {
		item := doc.GetNode(root.Items[i])
		require.NotNil(t, item)
		require.Equal(t, document.ScalarNode, item.Kind)
		require.Equal(t, want, string(item.Value))
		require.Equal(t, yamlh.DEFAULT_SCALAR_TAG, item.Tag)
	}
}

func TestComposeMapping(t *testing.T) {
	doc := compose(t, "a: 1\nb: 2\n")

	root := doc.GetRootNode()
	require.Equal(t, document.MappingNode, root.Kind)
	require.Equal(t, yamlh.DEFAULT_MAPPING_TAG, root.Tag)
	require.Len(t, root.Pairs, 2)
	require.Equal(t, "a", string(doc.GetNode(root.Pairs[0].Key).Value))
	require.Equal(t, "1", string(doc.GetNode(root.Pairs[0].Value).Value))
	require.Equal(t, "b", string(doc.GetNode(root.Pairs[1].Key).Value))
	require.Equal(t, "2", string(doc.GetNode(root.Pairs[1].Value).Value))
}

func TestComposeAliasSharesNode(t *testing.T) {
	doc := compose(t, "a: &x 1\nb: *x\n")

	root := doc.GetRootNode()
	require.Len(t, root.Pairs, 2)
	require.Equal(t, root.Pairs[0].Value, root.Pairs[1].Value, "both values must resolve to the same node id")

	shared := doc.GetNode(root.Pairs[0].Value)
	require.Equal(t, "1", string(shared.Value))
	require.Equal(t, "x", shared.Anchor)
}

func TestComposeDuplicateAnchor(t *testing.T) {
	_, err := composeErr("a: &x 1\nb: &x 2\n")
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.COMPOSER_ERROR, yerr.Type)
	require.Contains(t, yerr.Context, "duplicate anchor")
}

func TestComposeUndefinedAlias(t *testing.T) {
	_, err := composeErr("a: *nowhere\n")
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.COMPOSER_ERROR, yerr.Type)
	require.Contains(t, yerr.Problem, "undefined alias")
}

func TestComposeAnchorsClearedBetweenDocuments(t *testing.T) {
	parser := parserc.New(nil)
	parser.Input = []byte("&x a\n---\n*x\n")
	composer := document.NewComposer(parser)

	_, err := composer.Compose()
	require.NoError(t, err)

	_, err = composer.Compose()
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.COMPOSER_ERROR, yerr.Type)
}

func TestComposeDuplicateKeysPreserved(t *testing.T) {
	doc := compose(t, "a: 1\na: 2\n")
	root := doc.GetRootNode()
	require.Len(t, root.Pairs, 2)
	require.Equal(t, "1", string(doc.GetNode(root.Pairs[0].Value).Value))
	require.Equal(t, "2", string(doc.GetNode(root.Pairs[1].Value).Value))
}

func TestComposeBlockScalarChomping(t *testing.T) {
	doc := compose(t, "s: |-\n  line1\n  line2\n\n")
	root := doc.GetRootNode()
	value := doc.GetNode(root.Pairs[0].Value)
	require.Equal(t, "line1\nline2", string(value.Value))
	require.Equal(t, yamlh.YamlStyle(yamlh.LITERAL_SCALAR_STYLE), value.Style)
}

func TestComposeExplicitTagsKeptVerbatim(t *testing.T) {
	doc := compose(t, "!!int 42\n")
	root := doc.GetRootNode()
	require.Equal(t, "tag:yaml.org,2002:int", root.Tag)
	require.Equal(t, "!!int", root.ShortTag())
}

func TestComposeDirectives(t *testing.T) {
	doc := compose(t, "%YAML 1.2\n%TAG !e! tag:example.com,2000:\n---\nhello\n")
	require.NotNil(t, doc.Version)
	require.Equal(t, int8(1), doc.Version.Major)
	require.Equal(t, int8(2), doc.Version.Minor)
	require.False(t, doc.StartImplicit)
	require.Len(t, doc.TagDirectives, 1)
	require.Equal(t, "!e!", string(doc.TagDirectives[0].Handle))
}

func TestComposeEmptyDocument(t *testing.T) {
	doc := compose(t, "---\n")
	root := doc.GetRootNode()
	require.NotNil(t, root)
	require.Equal(t, document.ScalarNode, root.Kind)
	require.Empty(t, root.Value)
}

func TestComposeMultipleDocuments(t *testing.T) {
	parser := parserc.New(nil)
	parser.Input = []byte("one\n---\ntwo\n")
	composer := document.NewComposer(parser)

	first, err := composer.Compose()
	require.NoError(t, err)
	require.Equal(t, "one", string(first.GetRootNode().Value))

	second, err := composer.Compose()
	require.NoError(t, err)
	require.Equal(t, "two", string(second.GetRootNode().Value))

	third, err := composer.Compose()
	require.NoError(t, err)
	require.Nil(t, third)

	// Once ended, the composer keeps reporting end of stream.
	fourth, err := composer.Compose()
	require.NoError(t, err)
	require.Nil(t, fourth)
}

func TestComposeEmptyStream(t *testing.T) {
	doc, err := composeErr("")
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestComposePathLookup(t *testing.T) {
	doc := compose(t, "fruit:\n  - name: apple\n    varieties:\n      - name: macintosh\n")

	id := doc.PathLookup("fruit", "0", "varieties", "0", "name")
	require.NotZero(t, id)
	require.Equal(t, "macintosh", string(doc.GetNode(id).Value))

	require.Zero(t, doc.PathLookup("fruit", "1"))
	require.Zero(t, doc.PathLookup("vegetable"))
	require.Zero(t, doc.PathLookup("fruit", "x"))
	require.Zero(t, doc.PathLookup("fruit", "0", "name", "deeper"))
}
