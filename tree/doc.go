/*
Package tree implements a generic ordered tree.

Nodes carry a payload and know their parent. Clients usually embed a Node
into their own type and let the payload reference the outer value, which
makes it possible to get from a tree node back to the client's node type:

    type MyNode struct {
        tree.Node[*MyNode]
        ...
    }
    n := &MyNode{}
    n.Payload = n

The tree is the skeleton of the edit command tree and of the styled
node records of the style resolver.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree
