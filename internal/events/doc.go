// Package events provides types and interfaces for dispatching background
// work requests without coupling the emitting service to the task machinery.
//
// Services emit TaskRequestEvents (for example, a product view that should
// bump a counter) without knowing which handlers will process them. Handlers
// registered on the emitter translate events into persisted background tasks.
package events
