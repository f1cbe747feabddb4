// Package memory holds the conversation store driving a single agent run.
//
// A Conversation is an ordered, append-only record of the dialogue: an
// optional system prompt, user input, model steps and tool observations. It
// serializes into the []model.Message shape every model.Transport consumes.
//
// A Conversation is owned by exactly one run and is not safe for concurrent
// use; concurrent runs each build their own.
package memory
