package models

// BulkEnrollRequest enrolls several students into one course.
type BulkEnrollRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,dive,required"`
}

// BulkFailure records why a single item of a bulk operation failed.
type BulkFailure struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// BulkEnrollResult partitions a bulk enrollment by outcome. Both slices
// preserve input order.
type BulkEnrollResult struct {
	CourseID  string        `json:"course_id"`
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BulkStatusResult partitions a bulk course status update by outcome.
type BulkStatusResult struct {
	Status  CourseStatus  `json:"status"`
	Updated []string      `json:"updated"`
	Failed  []BulkFailure `json:"failed"`
}
