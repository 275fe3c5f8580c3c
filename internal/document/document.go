// Package document holds the composed form of a YAML document: a flat
// store of nodes addressed by one-based integer ids. Aliased subtrees
// share ids instead of pointers, so the tree is a DAG without shared
// ownership.
package document

import (
	"strconv"

	"github.com/djoezeke/myyaml/internal/resolve"
	"github.com/djoezeke/myyaml/internal/yamlh"
)

// Kind discriminates the node variants.
type Kind int

const (
	ScalarNode Kind = iota
	SequenceNode
	MappingNode
)

func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	}
	return "<unknown node kind>"
}

// Pair is one key/value entry of a mapping node, both sides given as
// node ids.
type Pair struct {
	Key, Value int
}

// Node is one element of a composed document. Value is set for scalar
// nodes, Items for sequence nodes, and Pairs for mapping nodes.
type Node struct {
	Kind  Kind
	Tag   string
	Style yamlh.YamlStyle
	Value []byte
	Items []int
	Pairs []Pair

	Start, End yamlh.Position

	// Anchor is the name the node was defined under in the source
	// stream, or "" if it was not anchored.
	Anchor string
}

// ShortTag returns the node's tag in shorthand form ("!!str" for
// "tag:yaml.org,2002:str").
func (n *Node) ShortTag() string {
	return resolve.ShortTag(n.Tag)
}

// Document owns the node store of one composed YAML document. Node id 0
// means "no node"; the first node pushed gets id 1 and is the root.
type Document struct {
	nodes []Node

	Version       *yamlh.VersionDirective
	TagDirectives []yamlh.TagDirective

	StartImplicit, EndImplicit bool

	StartMark, EndMark yamlh.Position
}

// New returns an empty document carrying the given directive context.
func New(version *yamlh.VersionDirective, tagDirectives []yamlh.TagDirective, startImplicit, endImplicit bool) *Document {
	return &Document{
		Version:       version,
		TagDirectives: tagDirectives,
		StartImplicit: startImplicit,
		EndImplicit:   endImplicit,
	}
}

func (d *Document) push(node Node) int {
	d.nodes = append(d.nodes, node)
	return len(d.nodes)
}

// Len returns the number of nodes in the store.
func (d *Document) Len() int {
	return len(d.nodes)
}

// AddScalar appends a scalar node and returns its id. A "!!xxx"
// shorthand tag is expanded; an empty tag resolves to !!str.
func (d *Document) AddScalar(tag string, value []byte, style yamlh.YamlScalarStyle) int {
	if tag == "" {
		tag = yamlh.DEFAULT_SCALAR_TAG
	}
	return d.push(Node{
		Kind:  ScalarNode,
		Tag:   resolve.LongTag(tag),
		Value: value,
		Style: yamlh.YamlStyle(style),
	})
}

// AddSequence appends an empty sequence node and returns its id.
func (d *Document) AddSequence(tag string, style yamlh.YamlSequenceStyle) int {
	if tag == "" {
		tag = yamlh.DEFAULT_SEQUENCE_TAG
	}
	return d.push(Node{
		Kind:  SequenceNode,
		Tag:   resolve.LongTag(tag),
		Style: yamlh.YamlStyle(style),
	})
}

// AddMapping appends an empty mapping node and returns its id.
func (d *Document) AddMapping(tag string, style yamlh.YamlMappingStyle) int {
	if tag == "" {
		tag = yamlh.DEFAULT_MAPPING_TAG
	}
	return d.push(Node{
		Kind:  MappingNode,
		Tag:   resolve.LongTag(tag),
		Style: yamlh.YamlStyle(style),
	})
}

// AppendSequenceItem appends the node item as the last item of the
// sequence node seq.
func (d *Document) AppendSequenceItem(seq, item int) error {
	parent := d.GetNode(seq)
	if parent == nil || d.GetNode(item) == nil {
		return yamlh.NewComposerError("", yamlh.Position{}, "node id out of range", yamlh.Position{})
	}
	if parent.Kind != SequenceNode {
		return yamlh.NewComposerError("", yamlh.Position{}, "cannot append an item to a "+parent.Kind.String()+" node", yamlh.Position{})
	}
	parent.Items = append(parent.Items, item)
	return nil
}

// AppendMappingPair appends a (key, value) pair to the mapping node m.
// Duplicate keys are not diagnosed; both pairs are kept in order.
func (d *Document) AppendMappingPair(m, key, value int) error {
	parent := d.GetNode(m)
	if parent == nil || d.GetNode(key) == nil || d.GetNode(value) == nil {
		return yamlh.NewComposerError("", yamlh.Position{}, "node id out of range", yamlh.Position{})
	}
	if parent.Kind != MappingNode {
		return yamlh.NewComposerError("", yamlh.Position{}, "cannot append a pair to a "+parent.Kind.String()+" node", yamlh.Position{})
	}
	parent.Pairs = append(parent.Pairs, Pair{Key: key, Value: value})
	return nil
}

// GetNode returns the node with the given id, or nil if the id is 0 or
// out of range. The pointer stays valid until the next Add call.
func (d *Document) GetNode(id int) *Node {
	if id < 1 || id > len(d.nodes) {
		return nil
	}
	return &d.nodes[id-1]
}

// GetRootNode returns the root node (id 1), or nil for an empty
// document.
func (d *Document) GetRootNode() *Node {
	return d.GetNode(1)
}

// MappingLookup returns the value id of the first pair of the mapping
// node m whose key is a scalar equal to key, or 0.
func (d *Document) MappingLookup(m int, key string) int {
	node := d.GetNode(m)
	if node == nil || node.Kind != MappingNode {
		return 0
	}
	for _, pair := range node.Pairs {
		k := d.GetNode(pair.Key)
		if k != nil && k.Kind == ScalarNode && string(k.Value) == key {
			return pair.Value
		}
	}
	return 0
}

// SequenceIndex returns the id of item index of the sequence node seq,
// or 0 if seq is not a sequence or the index is out of range.
func (d *Document) SequenceIndex(seq, index int) int {
	node := d.GetNode(seq)
	if node == nil || node.Kind != SequenceNode {
		return 0
	}
	if index < 0 || index >= len(node.Items) {
		return 0
	}
	return node.Items[index]
}

// PathLookup walks from the root, treating each path entry as a mapping
// key or, for sequence nodes, a decimal item index. It returns the id of
// the node the full path names, or 0 if any step does not resolve.
func (d *Document) PathLookup(path ...string) int {
	id := 1
	if d.GetNode(id) == nil {
		return 0
	}
	for _, entry := range path {
		node := d.GetNode(id)
		switch node.Kind {
		case MappingNode:
			id = d.MappingLookup(id, entry)
		case SequenceNode:
			index, err := strconv.Atoi(entry)
			if err != nil {
				return 0
			}
			id = d.SequenceIndex(id, index)
		default:
			return 0
		}
		if id == 0 {
			return 0
		}
	}
	return id
}
