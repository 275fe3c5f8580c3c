package document_test

import (
	"testing"

	"github.com/djoezeke/myyaml/internal/document"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func TestBuildDocumentByHand(t *testing.T) {
	doc := document.New(nil, nil, true, true)

	root := doc.AddMapping("", yamlh.ANY_MAPPING_STYLE)
	require.Equal(t, 1, root)

	key := doc.AddScalar("", []byte("items"), yamlh.ANY_SCALAR_STYLE)
	seq := doc.AddSequence("", yamlh.ANY_SEQUENCE_STYLE)
	require.NoError(t, doc.AppendMappingPair(root, key, seq))

	for _, v := range []string{"a", "b"} {
		item := doc.AddScalar("", []byte(v), yamlh.ANY_SCALAR_STYLE)
		require.NoError(t, doc.AppendSequenceItem(seq, item))
	}

	require.Equal(t, 5, doc.Len())
	require.Equal(t, document.MappingNode, doc.GetRootNode().Kind)
	require.Equal(t, yamlh.DEFAULT_MAPPING_TAG, doc.GetRootNode().Tag)

	require.Equal(t, seq, doc.MappingLookup(root, "items"))
	require.Equal(t, "a", string(doc.GetNode(doc.SequenceIndex(seq, 0)).Value))
	require.Equal(t, "b", string(doc.GetNode(doc.SequenceIndex(seq, 1)).Value))
	require.Zero(t, doc.SequenceIndex(seq, 2))
	require.Zero(t, doc.SequenceIndex(seq, -1))
}

func TestShorthandTagsExpanded(t *testing.T) {
	doc := document.New(nil, nil, true, true)
	id := doc.AddScalar("!!int", []byte("42"), yamlh.ANY_SCALAR_STYLE)
	node := doc.GetNode(id)
	require.Equal(t, "tag:yaml.org,2002:int", node.Tag)
	require.Equal(t, "!!int", node.ShortTag())
}

func TestGetNodeOutOfRange(t *testing.T) {
	doc := document.New(nil, nil, true, true)
	require.Nil(t, doc.GetNode(0))
	require.Nil(t, doc.GetNode(1))
	require.Nil(t, doc.GetRootNode())

	doc.AddScalar("", []byte("x"), yamlh.ANY_SCALAR_STYLE)
	require.NotNil(t, doc.GetNode(1))
	require.Nil(t, doc.GetNode(2))
	require.Nil(t, doc.GetNode(-1))
}

func TestAppendKindMismatch(t *testing.T) {
	doc := document.New(nil, nil, true, true)
	scalar := doc.AddScalar("", []byte("x"), yamlh.ANY_SCALAR_STYLE)
	seq := doc.AddSequence("", yamlh.ANY_SEQUENCE_STYLE)

	err := doc.AppendSequenceItem(scalar, seq)
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.COMPOSER_ERROR, yerr.Type)

	err = doc.AppendMappingPair(seq, scalar, scalar)
	require.Error(t, err)

	err = doc.AppendSequenceItem(seq, 99)
	require.Error(t, err)
}

func TestMappingLookupMisses(t *testing.T) {
	doc := document.New(nil, nil, true, true)
	m := doc.AddMapping("", yamlh.ANY_MAPPING_STYLE)
	k := doc.AddScalar("", []byte("k"), yamlh.ANY_SCALAR_STYLE)
	v := doc.AddScalar("", []byte("v"), yamlh.ANY_SCALAR_STYLE)
	require.NoError(t, doc.AppendMappingPair(m, k, v))

	require.Zero(t, doc.MappingLookup(m, "missing"))
	require.Zero(t, doc.MappingLookup(v, "k"), "lookup on a scalar node")
	require.Zero(t, doc.MappingLookup(99, "k"), "lookup on a bad id")
}
