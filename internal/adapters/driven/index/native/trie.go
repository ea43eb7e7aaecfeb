package native

// trie is a rune trie over the live terms of the index. A term is present
// exactly while at least one document posts to it.
type trie struct {
	root *trieNode
	size int
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
}

func newTrie() *trie {
	return &trie{root: &trieNode{}}
}

// insert adds term. Inserting a present term is a no-op.
func (t *trie) insert(term string) {
	node := t.root
	for _, r := range term {
		if node.children == nil {
			node.children = make(map[rune]*trieNode)
		}
		child, ok := node.children[r]
		if !ok {
			child = &trieNode{}
			node.children[r] = child
		}
		node = child
	}
	if !node.terminal {
		node.terminal = true
		t.size++
	}
}

// remove deletes term and prunes nodes left without terms beneath them.
func (t *trie) remove(term string) {
	runes := []rune(term)
	path := make([]*trieNode, 0, len(runes)+1)
	node := t.root
	path = append(path, node)
	for _, r := range runes {
		child, ok := node.children[r]
		if !ok {
			return
		}
		node = child
		path = append(path, node)
	}
	if !node.terminal {
		return
	}
	node.terminal = false
	t.size--

	for i := len(runes) - 1; i >= 0; i-- {
		child := path[i+1]
		if child.terminal || len(child.children) > 0 {
			break
		}
		delete(path[i].children, runes[i])
	}
}

// walk calls fn for every term that starts with prefix, including prefix
// itself when it is a term.
func (t *trie) walk(prefix string, fn func(term string)) {
	node := t.root
	buf := make([]rune, 0, len(prefix)+8)
	for _, r := range prefix {
		child, ok := node.children[r]
		if !ok {
			return
		}
		node = child
		buf = append(buf, r)
	}
	collect(node, buf, fn)
}

func collect(node *trieNode, buf []rune, fn func(term string)) {
	if node.terminal {
		fn(string(buf))
	}
	for r, child := range node.children {
		collect(child, append(buf, r), fn)
	}
}
