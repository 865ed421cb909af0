// Package social implements the social-commerce catalog destination.
// The provider only offers an asynchronous batch-submission endpoint:
// items_batch accepts the payload and returns a job handle. Submission
// acceptance is reported as per-item success without polling the job, a
// known limitation inherited from the provider contract — callers who
// need confirmed per-item outcomes must poll the handle themselves.
package social
