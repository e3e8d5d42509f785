package core

import "fmt"

const sprintPlanContract = `You are an AI project manager.
The output MUST be valid JSON with no surrounding text, explanation or comments.
Use only the following properties, in this format:
- sprints[]: id (null), name (string), description (string), start_date (YYYY-MM-DD), end_date (YYYY-MM-DD), tasks[]
- tasks[]: id (null), title (string), description (string), estimated_days (number), status ("todo"), sprintReference ("SPRINT_REF_X"), priority ("low"/"medium"/"high"/"critical"), assignee (string), deadline (YYYY-MM-DD)

Example:
{
  "sprints": [
    {
      "id": null,
      "name": "Sprint 1",
      "description": "Sprint description",
      "start_date": "2025-01-01",
      "end_date": "2025-01-10",
      "tasks": [
        {
          "id": null,
          "title": "Task 1",
          "description": "Task description",
          "estimated_days": 3,
          "status": "todo",
          "sprintReference": "SPRINT_REF_1",
          "priority": "high",
          "assignee": "John Doe",
          "deadline": "2025-01-05"
        }
      ]
    }
  ]
}
`

// BuildSprintPrompt renders the sprint-generation prompt for one project.
// The contract block pins the JSON shape the extractor and validator expect.
func BuildSprintPrompt(title, description, deadline, stack string) string {
	return fmt.Sprintf(`%s
Based on the following information:
Project title: %s
Project description: %s
Project deadline: %s
Project stack: %s

Send only the JSON, nothing else.
`, sprintPlanContract, title, description, deadline, stack)
}
