package email

type notificationView struct {
	SenderName   string
	SenderEmail  string
	MessageLines []string
}

type confirmationView struct {
	SenderName string
	Signature  string
}

// notificationTemplate is sent to the site owner. Message lines are joined
// with <br> after escaping, so submitted markup is never interpreted.
const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>New Contact Form Submission</h2>
        <p><strong>Name:</strong> {{.SenderName}}</p>
        <p><strong>Email:</strong> {{.SenderEmail}}</p>
        <p><strong>Message:</strong></p>
        <p>{{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
    </div>
</body>
</html>`

const confirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thanks for reaching out!</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Hello {{.SenderName}},</h2>
        <p>Thank you for reaching out! I've received your message and will get back to you as soon as possible.</p>
        <p>Best regards,<br>{{.Signature}}</p>
    </div>
</body>
</html>`
