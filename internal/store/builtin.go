package store

import "github.com/shreyas463/OpportunityMailer/internal/core"

// Builtins returns the built-in template table. These templates are compiled
// into the process, never persisted, and constructed fresh on every call so a
// caller cannot mutate the canonical set.
func Builtins() []*core.Template {
	return []*core.Template{
		{
			Name:        "job_application",
			Subject:     "Application for {position} position at {company}",
			Description: "Initial job application email to a recruiter or hiring manager",
			HTMLBody: `<html>
<body>
    <p>Dear {recruiter_name},</p>

    <p>I hope this email finds you well. My name is {sender_name}, and I came across the {position}
    position at {company}. I'm very interested in this opportunity and believe my background in
    {background} makes me a strong candidate.</p>

    <p>{custom_paragraph}</p>

    <p>I've attached my resume for your review. I would welcome the opportunity to discuss how
    my skills and experience align with your team's needs.</p>

    <p>Thank you for considering my application. I look forward to the possibility of speaking with you.</p>

    <p>Best regards,<br>
    {sender_name}<br>
    {sender_email}<br>
    {sender_phone}</p>
</body>
</html>`,
		},
		{
			Name:        "follow_up",
			Subject:     "Following up on {position} application at {company}",
			Description: "Follow-up email after submitting an application",
			HTMLBody: `<html>
<body>
    <p>Dear {recruiter_name},</p>

    <p>I hope you're doing well. I'm writing to follow up on my application for the {position}
    position that I submitted on {application_date}.</p>

    <p>I remain very interested in the opportunity to join {company} and contribute to your team.
    {custom_paragraph}</p>

    <p>If you need any additional information from me, please don't hesitate to ask.</p>

    <p>Thank you for your time and consideration.</p>

    <p>Best regards,<br>
    {sender_name}<br>
    {sender_email}<br>
    {sender_phone}</p>
</body>
</html>`,
		},
		{
			Name:        "thank_you",
			Subject:     "Thank you for the interview - {position} position",
			Description: "Thank you email after an interview",
			HTMLBody: `<html>
<body>
    <p>Dear {recruiter_name},</p>

    <p>Thank you for taking the time to interview me for the {position} position at {company} today.
    I appreciated the opportunity to learn more about the role and the team.</p>

    <p>{interview_highlights}</p>

    <p>Our conversation reinforced my enthusiasm for the position and my confidence that my skills in
    {skills} would enable me to make valuable contributions to your team.</p>

    <p>Thank you again for your consideration. I'm looking forward to hearing about the next steps
    in the process.</p>

    <p>Best regards,<br>
    {sender_name}<br>
    {sender_email}<br>
    {sender_phone}</p>
</body>
</html>`,
		},
		{
			Name:        "connection_request",
			Subject:     "Connecting with a fellow {industry} professional",
			Description: "Email to request a professional connection",
			HTMLBody: `<html>
<body>
    <p>Dear {recipient_name},</p>

    <p>I hope this email finds you well. My name is {sender_name}, and I {introduction_context}.</p>

    <p>I'm reaching out because {connection_reason}. Given your experience in {recipient_expertise},
    I would greatly value the opportunity to connect with you.</p>

    <p>{specific_request}</p>

    <p>I understand you're busy, and I appreciate any time you can spare. Thank you for considering
    my request.</p>

    <p>Best regards,<br>
    {sender_name}<br>
    {sender_email}<br>
    {sender_phone}</p>
</body>
</html>`,
		},
	}
}
