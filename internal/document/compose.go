package document

import (
	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
)

// Composer folds the event stream of one parser into documents. A single
// composer may produce many documents from a multi-document stream; the
// anchor table is cleared between documents.
type Composer struct {
	parser *parserc.YamlParser

	streamStarted bool
	streamEnded   bool

	anchors     map[string]int
	anchorMarks map[string]yamlh.Position
}

func NewComposer(parser *parserc.YamlParser) *Composer {
	return &Composer{
		parser:      parser,
		anchors:     make(map[string]int),
		anchorMarks: make(map[string]yamlh.Position),
	}
}

// frame is one open collection node while composing, with the pending
// mapping key (0 while no key is waiting for its value).
type frame struct {
	id  int
	key int
}

// Compose builds the next document from the event stream. It returns
// (nil, nil) once the stream has ended.
func (c *Composer) Compose() (*Document, error) {
	if c.streamEnded {
		return nil, nil
	}
	if !c.streamStarted {
		event, err := parserc.Parse(c.parser)
		if err != nil {
			return nil, err
		}
		if event.Type != yamlh.STREAM_START_EVENT {
			return nil, yamlh.NewComposerError("", yamlh.Position{}, "expected STREAM-START event", event.Start_mark)
		}
		c.streamStarted = true
	}

	event, err := parserc.Parse(c.parser)
	if err != nil {
		return nil, err
	}
	if event.Type == yamlh.STREAM_END_EVENT {
		c.streamEnded = true
		return nil, nil
	}
	if event.Type != yamlh.DOCUMENT_START_EVENT {
		return nil, yamlh.NewComposerError("", yamlh.Position{}, "expected DOCUMENT-START event", event.Start_mark)
	}

	doc := New(event.Version_directive, event.Tag_directives, event.Implicit, true)
	doc.StartMark = event.Start_mark

	var stack []frame
	for {
		event, err = parserc.Parse(c.parser)
		if err != nil {
			return nil, err
		}
		switch event.Type {
		case yamlh.DOCUMENT_END_EVENT:
			doc.EndImplicit = event.Implicit
			doc.EndMark = event.End_mark
			c.anchors = make(map[string]int)
			c.anchorMarks = make(map[string]yamlh.Position)
			return doc, nil

		case yamlh.ALIAS_EVENT:
			id, ok := c.anchors[string(event.Anchor)]
			if !ok {
				return nil, yamlh.NewComposerError("", yamlh.Position{}, "found undefined alias", event.Start_mark)
			}
			attach(doc, stack, id)

		case yamlh.SCALAR_EVENT:
			id := doc.push(Node{
				Kind:   ScalarNode,
				Tag:    resolveTag(event.Tag, yamlh.DEFAULT_SCALAR_TAG),
				Value:  event.Value,
				Style:  event.Style,
				Start:  event.Start_mark,
				End:    event.End_mark,
				Anchor: string(event.Anchor),
			})
			if err := c.register(event, id); err != nil {
				return nil, err
			}
			attach(doc, stack, id)

		case yamlh.SEQUENCE_START_EVENT:
			id := doc.push(Node{
				Kind:   SequenceNode,
				Tag:    resolveTag(event.Tag, yamlh.DEFAULT_SEQUENCE_TAG),
				Style:  event.Style,
				Start:  event.Start_mark,
				Anchor: string(event.Anchor),
			})
			if err := c.register(event, id); err != nil {
				return nil, err
			}
			attach(doc, stack, id)
			stack = append(stack, frame{id: id})

		case yamlh.MAPPING_START_EVENT:
			id := doc.push(Node{
				Kind:   MappingNode,
				Tag:    resolveTag(event.Tag, yamlh.DEFAULT_MAPPING_TAG),
				Style:  event.Style,
				Start:  event.Start_mark,
				Anchor: string(event.Anchor),
			})
			if err := c.register(event, id); err != nil {
				return nil, err
			}
			attach(doc, stack, id)
			stack = append(stack, frame{id: id})

		case yamlh.SEQUENCE_END_EVENT, yamlh.MAPPING_END_EVENT:
			doc.GetNode(stack[len(stack)-1].id).End = event.End_mark
			stack = stack[:len(stack)-1]

		case yamlh.TAIL_COMMENT_EVENT:
			// Comments are not nodes; nothing to attach.

		default:
			return nil, yamlh.NewComposerError("", yamlh.Position{}, "unexpected "+event.Type.String()+" event while composing a document", event.Start_mark)
		}
	}
}

// register records the anchor binding of a freshly allocated node.
func (c *Composer) register(event *yamlh.Event, id int) error {
	if len(event.Anchor) == 0 {
		return nil
	}
	name := string(event.Anchor)
	if _, ok := c.anchors[name]; ok {
		return yamlh.NewComposerError(
			"found duplicate anchor; first occurrence", c.anchorMarks[name],
			"second occurrence", event.Start_mark)
	}
	c.anchors[name] = id
	c.anchorMarks[name] = event.Start_mark
	return nil
}

// attach hooks the node id into the innermost open collection. The first
// node of a document has no parent and becomes the root by virtue of
// holding id 1.
func attach(doc *Document, stack []frame, id int) {
	if len(stack) == 0 {
		return
	}
	top := &stack[len(stack)-1]
	node := doc.GetNode(top.id)
	switch node.Kind {
	case SequenceNode:
		node.Items = append(node.Items, id)
	case MappingNode:
		if top.key == 0 {
			top.key = id
		} else {
			node.Pairs = append(node.Pairs, Pair{Key: top.key, Value: id})
			top.key = 0
		}
	}
}

// resolveTag keeps an explicit event tag verbatim and falls back to the
// default tag of the node kind for untagged and "!" non-specific nodes.
func resolveTag(tag []byte, deflt string) string {
	if len(tag) == 0 || string(tag) == "!" {
		return deflt
	}
	return string(tag)
}
