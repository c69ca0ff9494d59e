package bot

import (
	"fmt"
	"strings"

	"github.com/fabinhoeventos/pesquisabot/internal/repo"
)

// Rodapé institucional anexado às mensagens de encerramento.
const rodape = "\n\n\n*_Fabinho Eventos_*"

const (
	msgBoasVindas = "*FABINHO EVENTOS*\n\nOlá! 👋 Seja bem-vindo(a) ao nosso sistema de pesquisas. " +
		"Para começarmos, precisamos fazer um rápido cadastro.\n\nPor favor, digite seu *CPF* (apenas os números)."
	msgCPFInvalido         = "❌ CPF inválido. Por favor, digite apenas os 11 números."
	msgCPFNovamente        = "Ok, vamos tentar de novo. Por favor, digite seu CPF novamente."
	msgPedirNome           = "👍 Ótimo! Agora, por favor, digite seu *Nome Completo*."
	msgPedirTelefone       = "✅ Nome registrado. Para finalizar, digite seu *telefone com DDD*."
	msgCadastroFinalizado  = "🎉 Cadastro finalizado! Obrigado. Vou verificar se há pesquisas para você."
	msgRespostaSimNao      = "Resposta inválida. Por favor, digite 'Sim' ou 'Não'."
	msgNotaInvalida        = "❌ Ops! Por favor, envie apenas um número de 0 a 10. 😉"
	msgPesquisasConcluidas = "✅ Muito obrigado! Todas as suas pesquisas foram concluídas. ✨" + rodape
	msgAteLogo             = "Tudo bem! Agradecemos seu tempo. Tenha um ótimo dia! 👋" + rodape
	msgSessaoExpirada      = "⏳ Sua sessão foi encerrada por inatividade. Envie uma nova mensagem se quiser recomeçar. 👋"
	msgSessaoCancelada     = "Conversa cancelada. Envie uma nova mensagem quando quiser recomeçar. 👋"
	msgErroGenerico        = "😕 Desculpe, tivemos um problema por aqui. Tente novamente em instantes."
	msgGerandoRelatorio    = "🔍 Gerando relatório, por favor, aguarde..."
	msgVerOutroRelatorio   = "Deseja ver outro relatório? (Responda 'Sim' ou 'Não')"
	msgPedirListaCPFs      = "📝 Certo! Por favor, envie a lista de CPFs dos participantes. " +
		"Você pode separar por vírgula, espaço ou um por linha."
	msgNenhumCPFValido   = "❌ Nenhum CPF válido encontrado. Por favor, envie uma lista de CPFs (apenas números)."
	msgSalvando          = "Salvando... ⏳"
	msgNenhumEvento      = "Nenhum evento cadastrado no momento."
	msgCPFNaoCadastrado  = "❌ Esse CPF não está cadastrado no sistema."
	msgOpcaoInvalida     = "Opção inválida."
	msgSubstituicaoFeita = "✅ Substituição concluída com sucesso!"

	msgPedirNomeEvento   = "🎪 Qual o *nome do evento* da pesquisa?"
	msgPedirNomeLider    = "🧑‍💼 Qual o *nome do líder* a ser avaliado?"
	msgPedirDataEvento   = "📅 Qual a *data do evento*? (formato DD/MM/AAAA)"
	msgDataInvalida      = "❌ Data inválida. Por favor, use o formato DD/MM/AAAA."
	msgPedirCPFPapel     = "Digite o *CPF* do cadastro que terá o papel alterado."
	msgPedirCPFBlacklist = "Digite o *CPF* que deseja adicionar à blacklist."
	msgPedirCPFRemover   = "Digite o *CPF* que deseja remover da blacklist."
	msgPedirMotivo       = "Qual o *motivo* da inclusão na blacklist?"
	msgJaNaBlacklist     = "⚠️ Esse CPF já está na blacklist."
	msgNaoEstaBlacklist  = "Esse CPF não está na blacklist."
	msgRemovidoBlacklist = "✅ CPF removido da blacklist."
	msgBlacklistVazia    = "A blacklist está vazia no momento."
	msgOperacaoCancelada = "Tudo bem, operação cancelada. 👋" + rodape
	msgSemCredenciados   = "Nenhum credenciado encontrado para esse evento."
	msgGerandoArquivo    = "📤 Gerando o arquivo, um momento..."
)

const menuAdmin = "Olá, Administrador! 👋 Selecione uma opção:\n\n" +
	"*1.* Relatório de desempenho dos líderes\n" +
	"*2.* Cadastrar nova pesquisa\n" +
	"*3.* Relatório de médias por evento\n" +
	"*4.* Relatório de adesão\n" +
	"*5.* Alterar papel de um cadastro\n" +
	"*6.* Blacklist\n" +
	"*7.* Credenciamento\n" +
	"*8.* Substituição de credenciado\n" +
	"*9.* Exportar credenciados"

const menuLider = "Olá, Líder! 👋 Selecione uma opção:\n\n" +
	"*1.* Relatório de desempenho dos líderes\n" +
	"*2.* Cadastrar nova pesquisa"

const menuCoordenador = "Olá, Coordenador(a)! 👋 Selecione uma opção:\n\n" +
	"*1.* Credenciamento\n" +
	"*2.* Substituição de credenciado\n" +
	"*3.* Exportar credenciados"

const menuBlacklist = "🚫 *Blacklist* — selecione uma opção:\n\n" +
	"*1.* Adicionar CPF\n" +
	"*2.* Remover CPF\n" +
	"*3.* Listar CPFs barrados"

func msgConfirmarCPF(cpf string) string {
	return fmt.Sprintf("📄 O CPF digitado foi: *%s*. Está correto? (Responda 'Sim' ou 'Não')", cpf)
}

func msgSemPendencias(saudacao bool) string {
	prefixo := ""
	if saudacao {
		prefixo = "Olá! 👋 "
	}
	return prefixo + "Verificamos aqui e não há pesquisas pendentes para você no momento. Obrigado! 😊" + rodape
}

func msgPesquisaUnica(p repo.Pesquisa) string {
	return fmt.Sprintf("Olá! 👋 Vimos que você tem uma pesquisa pendente para o evento \"%s\".\n\n"+
		"Para nos ajudar a melhorar, poderia avaliar o líder *%s* com uma nota de 0 a 10? ✨",
		p.NomeEvento, p.NomeLider)
}

func msgEscolhaEvento(pendentes []repo.Pesquisa) string {
	var b strings.Builder
	b.WriteString("Olá! 👋 Vimos que você tem mais de uma pesquisa pendente. " +
		"Por favor, escolha qual evento gostaria de avaliar respondendo com o número correspondente:\n\n")
	for i, p := range pendentes {
		fmt.Fprintf(&b, "%d️⃣ Evento: *%s* (Líder: %s)\n", i+1, p.NomeEvento, p.NomeLider)
	}
	return b.String()
}

func msgAvaliarOutra(restantes int) string {
	if restantes == 1 {
		return "✅ Nota registrada! Você ainda tem *1* pesquisa pendente. Deseja respondê-la agora? (Responda 'Sim' ou 'Não')"
	}
	return fmt.Sprintf("✅ Nota registrada! Você ainda tem *%d* pesquisas pendentes. Deseja responder outra agora? (Responda 'Sim' ou 'Não')", restantes)
}

func msgNotaParaEvento(p repo.Pesquisa) string {
	return fmt.Sprintf("Ótimo! 👍 Para o evento \"%s\", qual nota de 0 a 10 você daria para o líder *%s*?",
		p.NomeEvento, p.NomeLider)
}

func msgEscolhaNumeroValido(limite int) string {
	return fmt.Sprintf("❌ Por favor, responda com um número válido entre 1 e %d.", limite)
}

func msgListaEventos(titulo string, eventos []repo.EventoCatalogo) string {
	var b strings.Builder
	b.WriteString(titulo + "\n\n")
	for i, e := range eventos {
		fmt.Fprintf(&b, "*%d.* %s", i+1, e.Nome)
		if e.Data != "" {
			fmt.Fprintf(&b, " (%s)", e.Data)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func msgListaPapeis() string {
	var b strings.Builder
	b.WriteString("Qual papel deseja atribuir?\n\n")
	for i, papel := range repo.PapeisValidos {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, papel)
	}
	return b.String()
}

func msgPesquisasCadastradas(quantidade int, evento string) string {
	return fmt.Sprintf("✅ Pronto! *%d* pesquisa(s) cadastrada(s) para o evento \"%s\".", quantidade, evento) + rodape
}

func msgPapelAtual(c repo.Cadastro) string {
	return fmt.Sprintf("Encontrei *%s* (papel atual: *%s*).", c.NomeCompleto, c.Papel)
}

func msgPapelAtualizado(nome, papel string) string {
	return fmt.Sprintf("✅ Papel de *%s* atualizado para *%s*.", nome, papel) + rodape
}

func msgConfirmarBlacklist(cpf, nome, motivo string) string {
	quem := cpf
	if nome != "" {
		quem = fmt.Sprintf("%s (%s)", nome, cpf)
	}
	return fmt.Sprintf("Confirma a inclusão de *%s* na blacklist?\nMotivo: _%s_\n\n(Responda 'Sim' ou 'Não')", quem, motivo)
}

func msgIncluidoBlacklist(cpf string) string {
	return fmt.Sprintf("✅ CPF *%s* incluído na blacklist.", cpf) + rodape
}

func msgListaBlacklist(entradas []repo.EntradaBlacklist) string {
	var b strings.Builder
	b.WriteString("🚫 *CPFs na blacklist:*\n\n")
	for _, e := range entradas {
		fmt.Fprintf(&b, "• *%s*", e.CPF)
		if e.NomeCompleto != "" {
			fmt.Fprintf(&b, " — %s", e.NomeCompleto)
		}
		if e.Motivo != "" {
			fmt.Fprintf(&b, " (_%s_)", e.Motivo)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func msgListaFuncoes(funcoes []string) string {
	var b strings.Builder
	b.WriteString("Qual função essa pessoa vai exercer?\n\n")
	for i, funcao := range funcoes {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, funcao)
	}
	return b.String()
}
