// Package handler contains the building blocks of HTTP handler pipelines.
//
// A pipeline stage is a Handler: a function that receives the continuation
// representing the rest of the pipeline, and returns a new continuation. A
// stage either passes the request through by calling its continuation, or
// short-circuits the pipeline by returning a result on its own.
//
// Stages can be written in one of two styles. Handler and Func use async.Task,
// a future that is started eagerly. JobHandler and JobFunc use job.Job, a lazy
// computation scheduled on a job.Runtime. The functions in this package convert
// between both styles without altering results, errors, or panics, so that
// stages written in either style can be composed together.
package handler
