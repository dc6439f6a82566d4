package explorer

// NodeID identifies a node for the lifetime of the current root. IDs are
// never reused until OpenRoot starts a new tree.
type NodeID int

// NoNode is returned where no node applies
const NoNode NodeID = -1

// Node is a read-only view of one tree entry
type Node struct {
	ID        NodeID
	Name      string
	IsDir     bool
	IsSymlink bool
	Parent    NodeID
	Expanded  bool
}

type node struct {
	name      string
	isDir     bool
	isSymlink bool
	parent    NodeID
	children  []NodeID
	expanded  bool
	alive     bool
}

// arena owns every node of a tree. Removed slots stay dead.
type arena struct {
	nodes []node
}

func (a *arena) reset() {
	a.nodes = a.nodes[:0]
}

func (a *arena) add(name string, isDir, isSymlink bool, parent NodeID) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{
		name:      name,
		isDir:     isDir,
		isSymlink: isSymlink,
		parent:    parent,
		alive:     true,
	})
	if parent != NoNode {
		p := &a.nodes[parent]
		p.children = append(p.children, id)
	}
	return id
}

func (a *arena) get(id NodeID) *node {
	if id < 0 || int(id) >= len(a.nodes) || !a.nodes[id].alive {
		return nil
	}
	return &a.nodes[id]
}

// detach unlinks id from its parent and kills its whole subtree
func (a *arena) detach(id NodeID) {
	n := a.get(id)
	if n == nil {
		return
	}
	if p := a.get(n.parent); p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	a.kill(id)
}

func (a *arena) kill(id NodeID) {
	n := a.get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		a.kill(c)
	}
	n.alive = false
	n.children = nil
}

// live counts nodes still attached
func (a *arena) live() int {
	count := 0
	for i := range a.nodes {
		if a.nodes[i].alive {
			count++
		}
	}
	return count
}
