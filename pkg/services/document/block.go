package document

// Block is a node of a rich-text comment document. The set of variants is closed.
type Block interface {
	isBlock()
}

// Paragraph holds inline content, only TextRun children contribute text
type Paragraph struct {
	Children []Block
}

// TextRun is a leaf carrying literal text
type TextRun struct {
	Text string
}

// ListItem is an entry of a List
type ListItem struct {
	Children []Block
}

// List is either a bullet or an ordered list
type List struct {
	Ordered bool
	Items   []Block
}

// Unknown keeps any node whose shape or type is not supported
type Unknown struct {
	Type string
	Raw  any
}

func (Paragraph) isBlock() {}
func (TextRun) isBlock()   {}
func (ListItem) isBlock()  {}
func (List) isBlock()      {}
func (Unknown) isBlock()   {}

// Document is the root of a comment body
type Document struct {
	Content []Block
}

const (
	typeDoc         = "doc"
	typeParagraph   = "paragraph"
	typeText        = "text"
	typeListItem    = "listItem"
	typeBulletList  = "bulletList"
	typeOrderedList = "orderedList"
)

// Decode converts a decoded JSON value into a Document.
// The second return value is false when raw is not a document root.
func Decode(raw any) (*Document, bool) {
	node, ok := raw.(map[string]any)
	if !ok || nodeType(node) != typeDoc {
		return nil, false
	}
	return &Document{Content: decodeChildren(node)}, true
}

func decodeChildren(node map[string]any) []Block {
	children, ok := node["content"].([]any)
	if !ok {
		return nil
	}

	blocks := make([]Block, 0, len(children))
	for _, child := range children {
		blocks = append(blocks, decodeBlock(child))
	}
	return blocks
}

func decodeBlock(raw any) Block {
	node, ok := raw.(map[string]any)
	if !ok {
		return Unknown{Raw: raw}
	}

	switch t := nodeType(node); t {
	case typeParagraph:
		return Paragraph{Children: decodeChildren(node)}
	case typeText:
		text, ok := node["text"].(string)
		if !ok {
			return Unknown{Type: t, Raw: raw}
		}
		return TextRun{Text: text}
	case typeListItem:
		return ListItem{Children: decodeChildren(node)}
	case typeBulletList, typeOrderedList:
		return List{Ordered: t == typeOrderedList, Items: decodeChildren(node)}
	default:
		return Unknown{Type: t, Raw: raw}
	}
}

func nodeType(node map[string]any) string {
	t, _ := node["type"].(string)
	return t
}
