package swagger

import "github.com/swaggo/swag"

// Health, readiness and Prometheus endpoints are served at the root, outside
// basePath: GET /health, GET /ready, GET /metrics.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy Ledger API",
        "description": "Enrollment, scheduling and billing ledger for a tutoring academy",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Students", "description": "Student records"},
        {"name": "Enrollments", "description": "Student and course roster links"},
        {"name": "Courses", "description": "Course offerings"},
        {"name": "Mentors", "description": "Mentor profiles and course assignment"},
        {"name": "Classrooms", "description": "Rooms, schedules and conflict checks"},
        {"name": "Invoices", "description": "Invoice ledger and payments"},
        {"name": "Billing", "description": "Payment history, statistics and exports"},
        {"name": "Snapshots", "description": "Ledger export, import and persistence"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [{"name": "parent_id", "in": "query", "type": "string"}, {"name": "course_id", "in": "query", "type": "string"}, {"name": "active", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student into a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRef"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}/enrollments/{courseId}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove a student from a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "courseId", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [{"name": "mentor_id", "in": "query", "type": "string"}, {"name": "student_id", "in": "query", "type": "string"}, {"name": "classroom_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/status/bulk": {
            "post": {
                "tags": ["Courses"],
                "summary": "Change the status of several courses",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkCourseStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/{id}/enrollments/bulk": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll several students into a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkEnrollRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/mentors": {
            "get": {
                "tags": ["Mentors"],
                "summary": "List mentors",
                "parameters": [{"name": "user_id", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Mentors"],
                "summary": "Create mentor profile",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMentorRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/mentors/{id}": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Get mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Mentors"],
                "summary": "Update mentor profile",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMentorRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Mentors"],
                "summary": "Delete mentor profile",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/mentors/{id}/courses": {
            "post": {
                "tags": ["Mentors"],
                "summary": "Assign a course to a mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRef"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/mentors/{id}/courses/{courseId}": {
            "delete": {
                "tags": ["Mentors"],
                "summary": "Release a course from a mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "courseId", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List classrooms",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create classroom",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/classrooms/{id}": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Get classroom",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Classrooms"],
                "summary": "Update classroom",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassroomRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Classrooms"],
                "summary": "Delete classroom",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/classrooms/{id}/schedule": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Weekly schedule of a classroom",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/classrooms/{id}/conflicts": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Check candidate slots against a classroom",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheck"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/classrooms/{id}/availability": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Check whether a classroom is free",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "day", "in": "query", "type": "integer", "required": true}, {"name": "start", "in": "query", "type": "string", "required": true}, {"name": "end", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices": {
            "get": {
                "tags": ["Invoices"],
                "summary": "List invoices",
                "parameters": [{"name": "parent_id", "in": "query", "type": "string"}, {"name": "student_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "overdue", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Invoices"],
                "summary": "Create invoice",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInvoiceRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/reminders/overdue": {
            "post": {
                "tags": ["Invoices"],
                "summary": "Queue reminders for every overdue invoice",
                "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}": {
            "get": {
                "tags": ["Invoices"],
                "summary": "Get invoice",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Invoices"],
                "summary": "Update invoice",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateInvoiceRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Invoices"],
                "summary": "Delete invoice",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}/balance": {
            "get": {
                "tags": ["Invoices"],
                "summary": "Paid and outstanding amounts",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}/status": {
            "put": {
                "tags": ["Invoices"],
                "summary": "Change invoice status",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateInvoiceStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}/payments": {
            "post": {
                "tags": ["Invoices"],
                "summary": "Record a payment",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordPaymentRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}/comments": {
            "post": {
                "tags": ["Invoices"],
                "summary": "Comment on an invoice",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCommentRequest"}}],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/invoices/{id}/reminders": {
            "post": {
                "tags": ["Invoices"],
                "summary": "Send a payment reminder",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/payments": {
            "get": {
                "tags": ["Billing"],
                "summary": "Payment history, newest first",
                "parameters": [{"name": "invoice_id", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/billing/stats": {
            "get": {
                "tags": ["Billing"],
                "summary": "Billing statistics for invoices issued in a range",
                "parameters": [{"name": "start", "in": "query", "type": "string", "required": true}, {"name": "end", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/billing/export/invoices": {
            "get": {
                "tags": ["Billing"],
                "summary": "Export invoices",
                "parameters": [{"name": "format", "in": "query", "type": "string"}, {"name": "parent_id", "in": "query", "type": "string"}, {"name": "student_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/billing/export/payments": {
            "get": {
                "tags": ["Billing"],
                "summary": "Export payment history",
                "parameters": [{"name": "format", "in": "query", "type": "string"}, {"name": "invoice_id", "in": "query", "type": "string"}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/snapshots/export": {
            "get": {
                "tags": ["Snapshots"],
                "summary": "Export the ledger state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/snapshots/import": {
            "post": {
                "tags": ["Snapshots"],
                "summary": "Replace the ledger state",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Snapshot"}}],
                "responses": {"204": {"description": "No Content"}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/snapshots": {
            "get": {
                "tags": ["Snapshots"],
                "summary": "List persisted snapshots",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Snapshots"],
                "summary": "Persist the current state",
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/snapshots/{id}/restore": {
            "post": {
                "tags": ["Snapshots"],
                "summary": "Restore a persisted snapshot",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Process metrics summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "default": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {"day_of_week": {"type": "integer"}, "start_time": {"type": "string"}, "end_time": {"type": "string"}},
            "required": ["day_of_week", "start_time", "end_time"]
        },
        "EmergencyContact": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "phone": {"type": "string"}, "relationship": {"type": "string"}}
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {"parent_id": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "date_of_birth": {"type": "string", "format": "date-time"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "emergency_contact": {"$ref": "#/definitions/EmergencyContact"}, "academic_level": {"type": "string"}, "is_active": {"type": "boolean"}},
            "required": ["parent_id", "first_name", "last_name"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {"parent_id": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "date_of_birth": {"type": "string", "format": "date-time"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "emergency_contact": {"$ref": "#/definitions/EmergencyContact"}, "academic_level": {"type": "string"}, "is_active": {"type": "boolean"}}
        },
        "CourseRef": {
            "type": "object",
            "properties": {"course_id": {"type": "string"}},
            "required": ["course_id"]
        },
        "BulkEnrollRequest": {
            "type": "object",
            "properties": {"student_ids": {"type": "array", "items": {"type": "string"}}},
            "required": ["student_ids"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "mentor_id": {"type": "string"}, "classroom_id": {"type": "string"}, "duration_weeks": {"type": "integer"}, "max_students": {"type": "integer"}, "schedule": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}, "price": {"type": "string", "description": "decimal amount"}, "level": {"type": "string"}, "category": {"type": "string"}, "status": {"type": "string"}, "start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}},
            "required": ["name", "max_students"]
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "mentor_id": {"type": "string"}, "classroom_id": {"type": "string"}, "duration_weeks": {"type": "integer"}, "max_students": {"type": "integer"}, "schedule": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}, "price": {"type": "string", "description": "decimal amount"}, "level": {"type": "string"}, "category": {"type": "string"}, "status": {"type": "string"}, "start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}}
        },
        "BulkCourseStatusRequest": {
            "type": "object",
            "properties": {"course_ids": {"type": "array", "items": {"type": "string"}}, "status": {"type": "string"}},
            "required": ["course_ids", "status"]
        },
        "CreateMentorRequest": {
            "type": "object",
            "properties": {"user_id": {"type": "string"}, "specialization": {"type": "array", "items": {"type": "string"}}, "experience_years": {"type": "integer"}, "qualifications": {"type": "array", "items": {"type": "string"}}, "available_hours": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}, "hourly_rate": {"type": "string", "description": "decimal amount"}, "bio": {"type": "string"}, "is_active": {"type": "boolean"}},
            "required": ["user_id"]
        },
        "UpdateMentorRequest": {
            "type": "object",
            "properties": {"specialization": {"type": "array", "items": {"type": "string"}}, "experience_years": {"type": "integer"}, "qualifications": {"type": "array", "items": {"type": "string"}}, "available_hours": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}, "hourly_rate": {"type": "string", "description": "decimal amount"}, "bio": {"type": "string"}, "is_active": {"type": "boolean"}}
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "capacity": {"type": "integer"}, "equipment": {"type": "array", "items": {"type": "string"}}, "location": {"type": "string"}, "description": {"type": "string"}, "is_active": {"type": "boolean"}},
            "required": ["name", "capacity"]
        },
        "UpdateClassroomRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "capacity": {"type": "integer"}, "equipment": {"type": "array", "items": {"type": "string"}}, "location": {"type": "string"}, "description": {"type": "string"}, "is_active": {"type": "boolean"}}
        },
        "ConflictCheck": {
            "type": "object",
            "properties": {"slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}, "exclude_course_id": {"type": "string"}},
            "required": ["slots"]
        },
        "InvoiceItem": {
            "type": "object",
            "properties": {"course_id": {"type": "string"}, "course_name": {"type": "string"}, "quantity": {"type": "integer"}, "unit_price": {"type": "string", "description": "decimal amount"}, "total_price": {"type": "string", "description": "decimal amount"}, "description": {"type": "string"}}
        },
        "CreateInvoiceRequest": {
            "type": "object",
            "properties": {"parent_id": {"type": "string"}, "student_id": {"type": "string"}, "amount": {"type": "string", "description": "decimal amount"}, "issue_date": {"type": "string", "format": "date-time"}, "due_date": {"type": "string", "format": "date-time"}, "status": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/InvoiceItem"}}, "payment_method": {"type": "string"}},
            "required": ["parent_id", "student_id", "amount", "due_date"]
        },
        "UpdateInvoiceRequest": {
            "type": "object",
            "properties": {"amount": {"type": "string", "description": "decimal amount"}, "issue_date": {"type": "string", "format": "date-time"}, "due_date": {"type": "string", "format": "date-time"}, "items": {"type": "array", "items": {"$ref": "#/definitions/InvoiceItem"}}, "payment_method": {"type": "string"}}
        },
        "UpdateInvoiceStatusRequest": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "comment": {"type": "string"}},
            "required": ["status"]
        },
        "RecordPaymentRequest": {
            "type": "object",
            "properties": {"amount": {"type": "string", "description": "decimal amount"}, "payment_method": {"type": "string"}, "payment_date": {"type": "string", "format": "date-time"}, "reference": {"type": "string"}, "notes": {"type": "string"}},
            "required": ["amount", "payment_method"]
        },
        "AddCommentRequest": {
            "type": "object",
            "properties": {"comment": {"type": "string"}, "type": {"type": "string"}},
            "required": ["comment"]
        },
        "Snapshot": {
            "type": "object",
            "properties": {"students": {"type": "array", "items": {"type": "object"}}, "courses": {"type": "array", "items": {"type": "object"}}, "mentors": {"type": "array", "items": {"type": "object"}}, "classrooms": {"type": "array", "items": {"type": "object"}}, "invoices": {"type": "array", "items": {"type": "object"}}, "payments": {"type": "array", "items": {"type": "object"}}, "exported_at": {"type": "string", "format": "date-time"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "meta": {"type": "object"}}
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
