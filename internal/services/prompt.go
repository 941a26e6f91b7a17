package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const profileAnalysisSystem = `You are an expert career advisor and ATS (Applicant Tracking System) analyst. You review resumes and return structured, honest assessments. Your entire response must be a single JSON object with no surrounding prose.`

// BuildProfileAnalysisPrompt creates the full-schema prompt for a resume.
// jobGoal may be empty; the model then produces a role-agnostic assessment.
func (pb *PromptBuilder) BuildProfileAnalysisPrompt(resumeText, jobGoal string) (string, string) {
	goalLine := "No specific target role was provided. Assess the resume on its own merits."
	if strings.TrimSpace(jobGoal) != "" {
		goalLine = fmt.Sprintf("The candidate is targeting the following role: %s", jobGoal)
	}

	user := fmt.Sprintf(`%s

CANDIDATE RESUME:
%s

Analyze the resume and return your response in exactly the following JSON format:
{
  "skills": ["<technical skill>", ...],
  "summary": "<3-5 sentence professional summary of the candidate>",
  "ats_score": <integer 0-100, how well this resume would perform in an ATS>,
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "improvement_suggestions": ["<concrete suggestion>", ...],
  "recommended_roles": ["<role title>", ...],
  "years_experience": "<estimate, e.g. '5 years'>",
  "education": "<highest/most relevant education>",
  "soft_skills": ["<soft skill>", ...]
}

Return ONLY the JSON object as your entire response. Do not wrap it in markdown.`,
		goalLine, resumeText)

	return profileAnalysisSystem, user
}

const fitAnalysisSystem = `You are an expert technical recruiter estimating how well a candidate fits a specific job opening. Your entire response must be a single JSON object with no surrounding prose.`

// BuildFitAnalysisPrompt creates the narrow-schema prompt scoring one
// candidate summary against one job description.
func (pb *PromptBuilder) BuildFitAnalysisPrompt(jobDescription, candidateSummary string) (string, string) {
	user := fmt.Sprintf(`JOB DESCRIPTION:
%s

CANDIDATE SUMMARY:
%s

Estimate the candidate's compatibility with this job and return your response in exactly the following JSON format:
{
  "fit_score": <integer 0-100>,
  "explanation": "<2-4 sentence rationale citing concrete overlaps and gaps>"
}

Return ONLY the JSON object as your entire response. Do not wrap it in markdown.`,
		jobDescription, candidateSummary)

	return fitAnalysisSystem, user
}
