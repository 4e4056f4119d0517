// Package rbtree navigates Linux-style intrusive red-black trees that live
// in another address space: a running process, a kernel, or a memory image
// on disk.
//
// The target may be modifying the tree while it is walked. Every field is
// therefore fetched with a single read at the moment it is needed and never
// reused across steps, and nodes are compared by address. A walk over a tree
// that changes underneath it may skip, repeat or misorder nodes; that is not
// reported as an error. Read failures from the memory accessor are returned
// as is and never retried.
//
// The package never writes to target memory.
package rbtree
