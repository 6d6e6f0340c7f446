package main

import (
	"fmt"
	"time"

	"github.com/pivotpoint/platform/core/evaluation"
	"github.com/pivotpoint/platform/core/practicum"
)

var (
	seedSchools  = []string{"Lincoln Elementary", "Roosevelt Middle", "Washington High", "Jefferson Elementary"}
	seedGrades   = []string{"K", "1", "3", "5", "7", "9", "11"}
	seedServices = []string{"Initial Evaluation", "Re-evaluation", "Counseling", "Consultation"}
)

// seed loads demo data for local development. Existing student IDs are
// skipped so the command is safe to re-run.
func (cli *commandLine) seed(count int) error {
	now := time.Now().UTC()

	var created int
	for i := 0; i < count; i++ {
		studentID := fmt.Sprintf("DEMO-%04d", i+1)
		if _, err := cli.evalRepo.GetEvaluationByStudentID(studentID); err == nil {
			continue
		}

		logDate := now.AddDate(0, 0, -7*i)
		ev := evaluation.Evaluation{
			StudentID: studentID,
			Pseudonym: fmt.Sprintf("Student %c", 'A'+i%26),
			School:    seedSchools[i%len(seedSchools)],
			Grade:     seedGrades[i%len(seedGrades)],
			Service:   seedServices[i%len(seedServices)],
			Status:    evaluation.StatusInProgress,
			LogDate:   &logDate,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if i%2 == 0 {
			permission := logDate.AddDate(0, 0, 3)
			consent := logDate.AddDate(0, 0, 10)
			due := consent.AddDate(0, 0, 60)
			ev.PermissionDate = &permission
			ev.ConsentDate = &consent
			ev.DueDate = &due
		}
		if i%5 == 0 {
			eligibility := logDate.AddDate(0, 2, 0)
			ev.EligibilityDate = &eligibility
			ev.Status = evaluation.StatusCompleted
		}

		if _, err := cli.evalRepo.CreateEvaluation(ev); err != nil {
			return err
		}
		created++
	}
	logger.Printf("created %d demo evaluation(s)\n", created)

	entries, err := cli.pracRepo.QueryAllEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		demos := []practicum.Entry{
			{Date: now.AddDate(0, 0, -14).Format("2006-01-02"), Activity: "Cognitive assessment administration", Category: "Assessment", Hours: 2.5, Supervisor: "Dr. Reyes", CreatedAt: now},
			{Date: now.AddDate(0, 0, -7).Format("2006-01-02"), Activity: "IEP team meeting", Category: "Consultation", Hours: 1, Supervisor: "Dr. Reyes", CreatedAt: now},
			{Date: now.AddDate(0, 0, -2).Format("2006-01-02"), Activity: "Report writing", Category: "Documentation", Hours: 3, CreatedAt: now},
		}
		for _, entry := range demos {
			if _, err = cli.pracRepo.CreateEntry(entry); err != nil {
				return err
			}
		}
		logger.Printf("created %d demo practicum entries\n", len(demos))
	}
	return nil
}
