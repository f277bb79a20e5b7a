// Package task defines the task records exchanged with the remote task service.
//
// A task list response from the service looks like:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "category": "Casa",
//	    "deadline": "2024-01-01",
//	    "completed": false,
//	    "created_at": "2023-12-30 10:00:00"
//	  }
//	]
//
// Tasks are owned by the service. The client never mutates a Task in place;
// it asks the service for a change and then re-reads the whole list.
//
// # Identifiers
//
// The service assigns ids. They are kept as opaque strings on the client side
// and accepted as either JSON numbers or JSON strings.
//
// # Categories
//
// Categories come from a fixed set whose labels depend on the locale:
//
//   - pt: Trabalho, Pessoal, Casa, Saúde, Finanças
//   - en: Work, Personal, Home, Health, Finance
//
// # Validation
//
// Two kinds of checks exist:
//
//  1. NewTask.Validate applies the checks a browser form gives for free
//     (required description, category from the select, date-shaped deadline).
//  2. ValidateList checks a raw list response against an embedded JSON Schema
//     before it is decoded.
package task
