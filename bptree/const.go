package bptree

// nodeID addresses a node in the tree's arena.
type nodeID int32

// none marks an absent parent, sibling or root.
const none nodeID = -1
