// Package prompt holds the fixed prompt templates for the agents. One
// template per agent kind; the builders only fill slots, they never alter
// wording.
package prompt

import "fmt"

const systemTemplate = `You are %s, an AI agent specialized in incident response and operations management.

You are part of OpsAiX, an enterprise-grade incident response platform. Your role is to:
1. Analyze operational data (logs, metrics, alerts)
2. Detect and classify incidents
3. Provide actionable recommendations
4. Communicate findings clearly and concisely

Always be precise, factual, and focus on actionable insights.`

// AnalysisSystemSuffix is appended to the system prompt for the analysis
// agent.
const AnalysisSystemSuffix = "\n\nYou are performing detailed incident analysis. Be thorough and provide actionable insights."

const detectionTemplate = `Analyze the following operational data for potential incidents.

%s

Data to analyze:
%s

Your task:
1. Identify if there are any incidents that require immediate attention
2. Classify the severity level (critical, high, medium, low)
3. Determine the affected service/component
4. Suggest initial response actions

Respond in JSON format:
{
    "incident_detected": boolean,
    "confidence_score": float (0.0-1.0),
    "severity": "critical|high|medium|low",
    "title": "Brief incident title",
    "description": "Detailed description of the issue",
    "affected_service": "Service or component name",
    "affected_components": ["component1", "component2"],
    "recommended_actions": ["action1", "action2"],
    "urgency_reasons": ["reason1", "reason2"],
    "tags": ["tag1", "tag2"]
}

Focus on:
- Error patterns and anomalies
- Service availability issues
- Performance degradation
- Security concerns
- Resource exhaustion`

const analysisTemplate = `Perform a comprehensive analysis of the following incident:

INCIDENT DETAILS:
%s

ADDITIONAL DATA:
%s

CONTEXT:
%s

Your analysis should include:
1. Root cause analysis
2. Impact assessment
3. Recommended remediation steps
4. Prevention measures
5. Escalation recommendations

Respond in JSON format:
{
    "root_cause_analysis": {
        "primary_cause": "Main root cause identified",
        "contributing_factors": ["factor1", "factor2"],
        "confidence_level": float (0.0-1.0),
        "evidence": ["evidence1", "evidence2"]
    },
    "impact_assessment": {
        "affected_users": "estimated number or description",
        "business_impact": "high|medium|low",
        "service_degradation": "percentage or description",
        "estimated_downtime": "time estimate"
    },
    "remediation_plan": {
        "immediate_actions": ["action1", "action2"],
        "short_term_fixes": ["fix1", "fix2"],
        "long_term_solutions": ["solution1", "solution2"],
        "estimated_resolution_time": "time estimate"
    },
    "prevention_measures": {
        "monitoring_improvements": ["improvement1", "improvement2"],
        "process_changes": ["change1", "change2"],
        "infrastructure_updates": ["update1", "update2"]
    },
    "escalation_recommendation": {
        "should_escalate": boolean,
        "escalation_reason": "reason if should_escalate is true",
        "stakeholders_to_notify": ["stakeholder1", "stakeholder2"],
        "communication_priority": "urgent|high|normal|low"
    },
    "next_steps": ["step1", "step2"],
    "confidence_score": float (0.0-1.0)
}`

// System returns the system prompt for the named agent.
func System(agentName string) string {
	return fmt.Sprintf(systemTemplate, agentName)
}

// Detection fills the detection template with normalized data and the
// context summary.
func Detection(data, contextSummary string) string {
	return fmt.Sprintf(detectionTemplate, contextSummary, data)
}

// Analysis fills the analysis template with the rendered incident, the
// additional context data, and the context summary.
func Analysis(incident, additionalData, contextSummary string) string {
	return fmt.Sprintf(analysisTemplate, incident, additionalData, contextSummary)
}
