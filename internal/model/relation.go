package model

import "time"

// DocumentRelation is a directed edge from a parent document to a child
// document. The edge set is not required to be acyclic; consumers building a
// tree view must guard against cycles themselves.
type DocumentRelation struct {
	ID           int64     `json:"id"`
	ParentID     int64     `json:"parent_id"`
	ChildID      int64     `json:"child_id"`
	RelationType string    `json:"relation_type"`
	Description  string    `json:"description,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
